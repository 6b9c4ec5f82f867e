package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/the-outcaster/projectplus-updater/internal/manager"
)

// waitForOperation drains manager events for one operation, rendering a
// progress line until the terminal event arrives.
func waitForOperation(m *manager.Manager, opID uuid.UUID) error {
	for ev := range m.Events() {
		if ev.OpID != opID {
			continue
		}

		switch ev.Kind {
		case manager.EventProgress:
			renderProgress(ev)
		case manager.EventCompleted:
			clearProgressLine()
			fmt.Println(ev.Message)
			return nil
		case manager.EventFailed:
			clearProgressLine()
			return ev.Err
		}
	}
	return fmt.Errorf("event stream closed before the operation finished")
}

func renderProgress(ev manager.Event) {
	p := ev.Progress
	switch p.Stage {
	case "downloading":
		d := p.Download
		fmt.Fprintf(os.Stdout, "\r%3d%%  downloading %s  (%s / %s, %s/s)   ",
			p.Percent, p.Asset,
			formatBytes(d.BytesDone), formatBytes(d.BytesTotal),
			formatBytes(int64(d.Throughput)))
	case "extracting":
		fmt.Fprintf(os.Stdout, "\r%3d%%  extracting %s                       ", p.Percent, p.Asset)
	default:
		fmt.Fprintf(os.Stdout, "\r%3d%%  %s                                  ", p.Percent, p.Stage)
	}
}

func clearProgressLine() {
	fmt.Fprint(os.Stdout, "\r\033[K")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
