// Package state persists the installed-version marker and discovers the
// launchable artifact under an install directory.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/the-outcaster/projectplus-updater/internal/product"
)

// VersionFile is the per-install marker: plain text holding the release
// tag, no trailing metadata.
const VersionFile = ".version"

// launchableExt identifies the runtime artifact produced by extraction.
const launchableExt = ".AppImage"

// InstalledState is the local view of one product. Version and
// LaunchablePath are independent signals: a directory can carry a marker
// whose artifact was manually deleted.
type InstalledState struct {
	Product        product.Product
	Version        string // empty means not installed
	InstallDir     string
	LaunchablePath string // empty when no artifact was found
}

// Installed reports whether the directory holds a completed install.
func (s InstalledState) Installed() bool {
	return s.Version != ""
}

// Playable reports whether there is something to launch.
func (s InstalledState) Playable() bool {
	return s.Installed() && s.LaunchablePath != ""
}

// RemovalError wraps the I/O failure behind a rejected removal. Callers
// re-read state afterward rather than assuming the tree is gone.
type RemovalError struct {
	Dir string
	Err error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("could not remove installation at %s: %v", e.Dir, e.Err)
}

func (e *RemovalError) Unwrap() error { return e.Err }

// Store reads and writes install state beneath product directories.
type Store struct {
	fs afero.Fs
}

// NewStore creates a store over the given filesystem. A nil fs uses the
// real OS filesystem.
func NewStore(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs}
}

// Read scans installDir for the version marker and, independently, for
// the launchable artifact. It never fails on a missing or empty
// directory; that is simply the not-installed state.
func (s *Store) Read(p product.Product, installDir string) InstalledState {
	st := InstalledState{
		Product:    p,
		InstallDir: installDir,
	}

	if data, err := afero.ReadFile(s.fs, filepath.Join(installDir, VersionFile)); err == nil {
		st.Version = strings.TrimSpace(string(data))
	}

	st.LaunchablePath = s.findLaunchable(installDir)

	return st
}

// Write atomically replaces the version marker. Only called after all
// assets for a release have been downloaded and extracted.
func (s *Store) Write(installDir, versionTag string) error {
	if err := s.fs.MkdirAll(installDir, 0755); err != nil {
		return fmt.Errorf("failed to create install dir: %w", err)
	}

	markerPath := filepath.Join(installDir, VersionFile)
	tmpPath := markerPath + ".tmp"

	if err := afero.WriteFile(s.fs, tmpPath, []byte(versionTag), 0644); err != nil {
		return fmt.Errorf("failed to write version marker: %w", err)
	}
	if err := s.fs.Rename(tmpPath, markerPath); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to replace version marker: %w", err)
	}

	return nil
}

// Remove deletes the entire install directory tree. Removing a
// directory that does not exist succeeds as a no-op.
func (s *Store) Remove(installDir string) error {
	if _, err := s.fs.Stat(installDir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &RemovalError{Dir: installDir, Err: err}
	}

	if err := s.fs.RemoveAll(installDir); err != nil {
		return &RemovalError{Dir: installDir, Err: err}
	}

	return nil
}

// findLaunchable walks installDir for artifacts by extension. When
// several exist the pick is deterministic: fewest path components first,
// then lexical order.
func (s *Store) findLaunchable(installDir string) string {
	var candidates []string

	_ = afero.Walk(s.fs, installDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Unreadable subtrees just yield no candidates
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), launchableExt) {
			candidates = append(candidates, path)
		}
		return nil
	})

	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := strings.Count(candidates[i], string(filepath.Separator))
		dj := strings.Count(candidates[j], string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})

	return candidates[0]
}
