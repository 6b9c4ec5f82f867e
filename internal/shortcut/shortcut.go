// Package shortcut writes and removes XDG desktop entry files for
// installed products, plus the shared icon they point at.
package shortcut

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/the-outcaster/projectplus-updater/internal/download"
	"github.com/the-outcaster/projectplus-updater/internal/product"
)

// Location is one of the two well-known shortcut directories.
type Location int

const (
	// Desktop is the user's desktop directory.
	Desktop Location = iota
	// Applications is the user application-launcher directory.
	Applications
)

func (l Location) String() string {
	if l == Desktop {
		return "desktop"
	}
	return "applications"
}

// homeDir is swappable in tests.
var homeDir = os.UserHomeDir

// Path returns where a product's .desktop file lives for a location.
func Path(loc Location, p product.Product) (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}

	switch loc {
	case Desktop:
		return filepath.Join(home, "Desktop", p.ShortcutName()), nil
	default:
		return filepath.Join(home, ".local", "share", "applications", p.ShortcutName()), nil
	}
}

// Exists reports whether the shortcut file is present.
func Exists(loc Location, p product.Product) bool {
	path, err := Path(loc, p)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Create writes the desktop entry pointing at the launchable artifact.
func Create(loc Location, p product.Product, execPath, iconPath string) error {
	path, err := Path(loc, p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create shortcut dir: %w", err)
	}

	content := fmt.Sprintf(`[Desktop Entry]
Version=1.0
Name=%s
Comment=A Super Smash Bros. Brawl Mod
Exec="%s"
Icon=%s
Terminal=false
Type=Application
Categories=Game;
`, p.DisplayName, execPath, iconPath)

	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return fmt.Errorf("failed to write shortcut file: %w", err)
	}

	return nil
}

// Remove deletes the shortcut file. Asking to remove one that does not
// exist is reported via os.ErrNotExist so callers can tell the user.
func Remove(loc Location, p product.Product) error {
	path, err := Path(loc, p)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("shortcut not found at %s: %w", path, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("could not remove shortcut: %w", err)
	}

	return nil
}

// RemoveAll best-effort deletes a product's shortcuts from both
// locations, used when the installation itself is removed.
func RemoveAll(p product.Product) {
	for _, loc := range []Location{Desktop, Applications} {
		if path, err := Path(loc, p); err == nil {
			_ = os.Remove(path)
		}
	}
}

// EnsureIcon fetches the shared icon to iconPath once; it is re-fetched
// only if absent.
func EnsureIcon(iconURL, iconPath string) error {
	if _, err := os.Stat(iconPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(iconPath), 0755); err != nil {
		return fmt.Errorf("failed to create icon dir: %w", err)
	}

	if err := download.Fetch(iconURL, iconPath, nil); err != nil {
		return fmt.Errorf("failed to download icon: %w", err)
	}

	return nil
}
