// Package gcadapter reads the GameCube controller adapter overclock
// module's poll rate and can run the published installer script for it.
package gcadapter

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// RatePath is the sysfs parameter exposed by the gcadapter_oc kernel
// module; a variable so tests can point it at a fixture.
var RatePath = "/sys/module/gcadapter_oc/parameters/rate"

// InstallScriptURL is the published overclock-module install script.
const InstallScriptURL = "https://raw.githubusercontent.com/the-outcaster/gcadapter-oc-kmod-deck/main/install_gcadapter-oc-kmod.sh"

// rateLabels maps the module's divisor to a poll frequency.
var rateLabels = map[int]string{
	1: "1,000 Hz",
	2: "500 Hz",
	4: "250 Hz",
	8: "125 Hz",
}

// PollRate reads the adapter poll-rate divisor. An error means the
// overclock module is not loaded.
func PollRate() (int, error) {
	data, err := os.ReadFile(RatePath)
	if err != nil {
		return 0, fmt.Errorf("gcadapter_oc module not found: %w", err)
	}

	rate, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("unreadable adapter rate: %w", err)
	}

	return rate, nil
}

// Describe renders a divisor as a frequency for display.
func Describe(rate int) string {
	if label, ok := rateLabels[rate]; ok {
		return label
	}
	return fmt.Sprintf("Unknown (%d)", rate)
}

// Overclocked reports whether the adapter already polls at full rate.
func Overclocked(rate int) bool {
	return rate == 1
}

// Overclock runs the module install script in a terminal emulator so
// the user can answer the administrator password prompt. Tries
// gnome-terminal first, then konsole.
func Overclock() error {
	command := fmt.Sprintf("curl -L %s | sh; echo 'Press Enter to close...'; read _", InstallScriptURL)

	if path, err := exec.LookPath("gnome-terminal"); err == nil {
		return exec.Command(path, "--", "bash", "-c", command).Run()
	}
	if path, err := exec.LookPath("konsole"); err == nil {
		return exec.Command(path, "-e", "bash", "-c", command).Run()
	}

	return fmt.Errorf("could not find gnome-terminal or konsole")
}
