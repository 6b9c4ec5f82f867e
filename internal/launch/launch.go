// Package launch spawns the installed AppImage as a detached child.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// Start makes the launchable artifact executable and spawns it detached,
// with its working directory set to its own containing directory so the
// game resolves its data files. The child outlives the launcher.
func Start(launchablePath string) error {
	if _, err := os.Stat(launchablePath); err != nil {
		return fmt.Errorf("launchable artifact not found: %w", err)
	}

	if err := os.Chmod(launchablePath, 0755); err != nil {
		return fmt.Errorf("failed to mark %s executable: %w", filepath.Base(launchablePath), err)
	}

	cmd := exec.Command(launchablePath)
	cmd.Dir = filepath.Dir(launchablePath)
	// New session so the game survives the launcher exiting
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", filepath.Base(launchablePath), err)
	}

	return cmd.Process.Release()
}
