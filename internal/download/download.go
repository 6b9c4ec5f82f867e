package download

import (
	"errors"
	"fmt"
	"time"

	"github.com/cavaliergopher/grab/v3"
)

var client = grab.NewClient()

// Progress is a snapshot of one in-flight download. Throughput is the
// cumulative average since the download started, not a windowed rate.
type Progress struct {
	BytesDone  int64
	BytesTotal int64
	Throughput float64 // bytes per second
	Elapsed    time.Duration
}

// Percent returns completion as 0-100, or 0 when the total is unknown.
func (p Progress) Percent() int {
	if p.BytesTotal <= 0 {
		return 0
	}
	return int(float64(p.BytesDone) / float64(p.BytesTotal) * 100)
}

// ProgressFunc is called during a download with progress info. Calls are
// rate-limited to roughly two per second, plus one final call at
// completion; reported BytesDone values are non-decreasing.
type ProgressFunc func(Progress)

// HTTPError reports a non-2xx response from the asset server.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("download of %s failed: HTTP %d", e.URL, e.Status)
}

// NetworkError reports a connection or timeout failure. The partial file
// is left in place; the caller decides whether to retry from scratch.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// callbackInterval bounds the progress callback rate so a UI channel is
// never saturated by a fast connection.
const callbackInterval = 500 * time.Millisecond

// Fetch streams url to targetPath, overwriting any existing file. There
// is no partial-byte resume: a retried download starts over.
func Fetch(url, targetPath string, callback ProgressFunc) error {
	req, err := grab.NewRequest(targetPath, url)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	req.NoResume = true // Always overwrite, never resume

	start := time.Now()
	resp := client.Do(req)

	ticker := time.NewTicker(callbackInterval)
	defer ticker.Stop()

	report := func() {
		if callback == nil {
			return
		}
		elapsed := time.Since(start)
		snapshot := Progress{
			BytesDone:  resp.BytesComplete(),
			BytesTotal: resp.Size(),
			Elapsed:    elapsed,
		}
		if secs := elapsed.Seconds(); secs > 0 {
			snapshot.Throughput = float64(snapshot.BytesDone) / secs
		}
		callback(snapshot)
	}

loop:
	for {
		select {
		case <-ticker.C:
			report()
		case <-resp.Done:
			break loop
		}
	}

	if err := resp.Err(); err != nil {
		var statusErr grab.StatusCodeError
		if errors.As(err, &statusErr) {
			return &HTTPError{URL: url, Status: int(statusErr)}
		}
		return &NetworkError{URL: url, Err: err}
	}

	// Terminal callback so consumers always see the final byte count.
	report()

	return nil
}
