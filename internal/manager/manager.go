// Package manager owns the per-product install state machine: it
// composes the release feed, downloader, archive installer and version
// store, and runs every long-running operation on a worker goroutine
// that reports back over an event channel. Only the controller mutates
// displayed state; workers communicate exclusively via that channel.
package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/the-outcaster/projectplus-updater/internal/archive"
	"github.com/the-outcaster/projectplus-updater/internal/feed"
	"github.com/the-outcaster/projectplus-updater/internal/product"
	"github.com/the-outcaster/projectplus-updater/internal/state"
)

// Status is the state-machine position of one product.
type Status int

const (
	StatusNotInstalled Status = iota
	StatusInstalled
	StatusUpdateAvailable
	StatusOperationInProgress
)

func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusUpdateAvailable:
		return "update available"
	case StatusOperationInProgress:
		return "operation in progress"
	default:
		return "not installed"
	}
}

// ErrOperationInFlight rejects a second concurrent operation for the
// same product. In-flight operations run to completion; there is no
// cancellation.
var ErrOperationInFlight = errors.New("an operation is already in progress for this product")

// ProductState is the controller's view of one product.
type ProductState struct {
	Product   product.Product
	Status    Status
	Installed state.InstalledState
	// Latest is the most recently fetched release, nil until a remote
	// check has run. Never persisted.
	Latest *feed.Release
	// Unavailable is non-nil when the product's required external tool
	// is missing; the product is disabled rather than crashing.
	Unavailable error
}

// UpdateAvailable reports whether the fetched release is newer than the
// installed one. Only installed-vs-latest is tracked; there is no
// rollback to arbitrary versions.
func (ps ProductState) UpdateAvailable() bool {
	return ps.Latest != nil && ps.Installed.Installed() && ps.Latest.TagName != ps.Installed.Version
}

// Manager composes the launcher's components and serializes access to
// mutable per-product state.
type Manager struct {
	mu        sync.Mutex
	baseDir   string
	store     *state.Store
	installer *archive.Installer
	feeds     map[string]*feed.Client
	states    map[string]*ProductState
	inFlight  map[string]bool
	events    chan Event
	log       *slog.Logger
}

// New builds a manager over baseDir using the real filesystem and the
// public release feeds. A nil logger falls back to slog's default.
func New(baseDir string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}

	m := &Manager{
		baseDir:   baseDir,
		store:     state.NewStore(nil),
		installer: archive.New(baseDir),
		feeds:     make(map[string]*feed.Client),
		states:    make(map[string]*ProductState),
		inFlight:  make(map[string]bool),
		events:    make(chan Event, 64),
		log:       log,
	}

	for _, p := range product.Catalog {
		m.feeds[p.ID] = feed.NewClient(p.Owner, p.Repo, nil)
		m.states[p.ID] = &ProductState{
			Product:     p,
			Unavailable: p.Available(),
		}
	}

	m.Refresh()
	return m
}

// Events is the notification channel workers report on. The controller
// drains it; nothing else may mutate displayed state.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// SetFeedBaseURL points every product's release feed at a different API
// root (useful for testing)
func (m *Manager) SetFeedBaseURL(baseURL string) {
	for _, c := range m.feeds {
		c.SetBaseURL(baseURL)
	}
}

// BaseDir returns the current base install directory.
func (m *Manager) BaseDir() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseDir
}

// InstallDir derives a product's install directory from the base dir.
func (m *Manager) InstallDir(p product.Product) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installDirLocked(p)
}

func (m *Manager) installDirLocked(p product.Product) string {
	return filepath.Join(m.baseDir, p.DirName)
}

// State returns a copy of one product's current state.
func (m *Manager) State(productID string) (ProductState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, ok := m.states[productID]
	if !ok {
		return ProductState{}, fmt.Errorf("unknown product: %s", productID)
	}
	return *ps, nil
}

// States returns a snapshot of every product in catalog order.
func (m *Manager) States() []ProductState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ProductState, 0, len(product.Catalog))
	for _, p := range product.Catalog {
		out = append(out, *m.states[p.ID])
	}
	return out
}

// Refresh rescans local install state for every product.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range product.Catalog {
		ps := m.states[p.ID]
		if ps.Status == StatusOperationInProgress {
			continue
		}
		ps.Installed = m.store.Read(p, m.installDirLocked(p))
		ps.Status = deriveStatus(ps)
	}
}

// Relocate changes the base install directory, re-derives every
// per-product install dir and forces a fresh local scan. Existing
// installed files are not migrated. Rejected while any operation is in
// flight.
func (m *Manager) Relocate(newBaseDir string) error {
	m.mu.Lock()
	for id, busy := range m.inFlight {
		if busy {
			m.mu.Unlock()
			return fmt.Errorf("cannot relocate while %s is busy: %w", id, ErrOperationInFlight)
		}
	}
	m.baseDir = newBaseDir
	m.installer.DownloadDir = newBaseDir
	m.mu.Unlock()

	m.Refresh()
	m.log.Info("relocated base install dir", "dir", newBaseDir)
	return nil
}

// CheckRemote queries the product's release feed on a worker goroutine
// and records the result. Returns the operation ID.
func (m *Manager) CheckRemote(productID string) (uuid.UUID, error) {
	return m.startOperation(productID, "checking for updates", func(ps ProductState, opID uuid.UUID) error {
		release, err := m.feeds[productID].Latest()
		if err != nil {
			return err
		}

		m.mu.Lock()
		m.states[productID].Latest = release
		m.mu.Unlock()
		return nil
	})
}

// StartUpdate begins the download-and-extract pipeline for a product.
// The version marker is written only after every asset has been fully
// downloaded and extracted; a failure leaves the prior marker untouched.
func (m *Manager) StartUpdate(productID string) (uuid.UUID, error) {
	return m.startOperation(productID, "installing update", func(ps ProductState, opID uuid.UUID) error {
		client := m.feeds[productID]

		release := ps.Latest
		if release == nil {
			var err error
			if release, err = client.Latest(); err != nil {
				return err
			}
			m.mu.Lock()
			m.states[productID].Latest = release
			m.mu.Unlock()
		}

		installDir := m.InstallDir(ps.Product)
		err := m.installer.InstallRelease(ps.Product, release, installDir, m.progressFunc(ps.Product, opID))
		if err != nil {
			return err
		}

		return m.store.Write(installDir, release.TagName)
	})
}

// StartTextureInstall begins the optional texture-pack pipeline. It is
// independent of the main install flow but shares the per-product
// in-flight flag.
func (m *Manager) StartTextureInstall(productID string) (uuid.UUID, error) {
	return m.startOperation(productID, "installing HD textures", func(ps ProductState, opID uuid.UUID) error {
		release := ps.Latest
		if release == nil {
			var err error
			if release, err = m.feeds[productID].Latest(); err != nil {
				return err
			}
			m.mu.Lock()
			m.states[productID].Latest = release
			m.mu.Unlock()
		}

		set := feed.Classify(release.Assets)
		if set.TexturePack == nil {
			return fmt.Errorf("release %s has no HD texture asset", release.TagName)
		}
		if !ps.Installed.Playable() {
			return fmt.Errorf("install %s before downloading textures", ps.Product.DisplayName)
		}

		return m.installer.InstallTexturePack(ps.Product, *set.TexturePack, ps.Installed.LaunchablePath, m.progressFunc(ps.Product, opID))
	})
}

// Remove deletes the product's install tree. It runs synchronously on
// the controller; callers observe the re-read state rather than
// assuming success.
func (m *Manager) Remove(productID string) error {
	m.mu.Lock()
	ps, ok := m.states[productID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown product: %s", productID)
	}
	if m.inFlight[productID] {
		m.mu.Unlock()
		return ErrOperationInFlight
	}
	dir := m.installDirLocked(ps.Product)
	m.mu.Unlock()

	if err := m.store.Remove(dir); err != nil {
		m.Refresh()
		return err
	}

	m.Refresh()
	m.log.Info("removed installation", "product", productID, "dir", dir)
	return nil
}

// startOperation flips the product's in-flight flag under the lock,
// spawns the worker and wires its terminal event. The flag is the only
// mutable state shared with workers and is always set before the
// goroutine starts and cleared after its terminal event is queued.
func (m *Manager) startOperation(productID, title string, run func(ps ProductState, opID uuid.UUID) error) (uuid.UUID, error) {
	m.mu.Lock()
	ps, ok := m.states[productID]
	if !ok {
		m.mu.Unlock()
		return uuid.Nil, fmt.Errorf("unknown product: %s", productID)
	}
	if ps.Unavailable != nil {
		m.mu.Unlock()
		return uuid.Nil, ps.Unavailable
	}
	if m.inFlight[productID] {
		m.mu.Unlock()
		return uuid.Nil, ErrOperationInFlight
	}

	m.inFlight[productID] = true
	prior := ps.Status
	ps.Status = StatusOperationInProgress
	snapshot := *ps
	m.mu.Unlock()

	opID := uuid.New()
	m.log.Info("operation started", "op", opID, "product", productID, "title", title)

	go func() {
		err := run(snapshot, opID)

		m.mu.Lock()
		ps := m.states[productID]
		if err != nil {
			// Failure never transitions to Installed; the product
			// reverts to its last known-good state.
			ps.Status = prior
		}
		ps.Installed = m.store.Read(ps.Product, m.installDirLocked(ps.Product))
		if err == nil {
			ps.Status = deriveStatus(ps)
		}
		m.inFlight[productID] = false
		p := ps.Product
		m.mu.Unlock()

		if err != nil {
			m.log.Error("operation failed", "op", opID, "product", productID, "error", err)
			m.events <- Event{
				OpID:    opID,
				Product: p,
				Kind:    EventFailed,
				Message: fmt.Sprintf("%s failed: %v", title, err),
				Err:     err,
			}
			return
		}

		m.log.Info("operation completed", "op", opID, "product", productID)
		m.events <- Event{
			OpID:    opID,
			Product: p,
			Kind:    EventCompleted,
			Message: title + " completed",
		}
	}()

	return opID, nil
}

// progressFunc adapts installer callbacks onto the event channel.
func (m *Manager) progressFunc(p product.Product, opID uuid.UUID) archive.ProgressFunc {
	return func(ap archive.Progress) {
		m.events <- Event{
			OpID:     opID,
			Product:  p,
			Kind:     EventProgress,
			Progress: ap,
		}
	}
}

// deriveStatus recomputes a product's state-machine position from its
// local install state and last fetched release.
func deriveStatus(ps *ProductState) Status {
	if !ps.Installed.Installed() {
		return StatusNotInstalled
	}
	if ps.Latest != nil && ps.Latest.TagName != ps.Installed.Version {
		return StatusUpdateAvailable
	}
	return StatusInstalled
}
