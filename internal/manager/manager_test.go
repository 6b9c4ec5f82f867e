package manager

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-outcaster/projectplus-updater/internal/feed"
	"github.com/the-outcaster/projectplus-updater/internal/product"
	"github.com/the-outcaster/projectplus-updater/internal/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// releaseServer serves a latest-release document plus its asset
// downloads from one httptest server.
type releaseServer struct {
	*httptest.Server
	release feed.Release
	assets  map[string][]byte
	// gate, when non-nil, blocks asset downloads until closed
	gate chan struct{}
}

func newReleaseServer(t *testing.T, tag string, assets map[string][]byte) *releaseServer {
	t.Helper()

	rs := &releaseServer{assets: assets}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if data, ok := rs.assets[filepath.Base(r.URL.Path)]; ok {
			if rs.gate != nil {
				<-rs.gate
			}
			w.Write(data)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rs.release)
	}))
	t.Cleanup(rs.Close)

	rs.release = feed.Release{TagName: tag, Body: "notes"}
	for name, data := range assets {
		rs.release.Assets = append(rs.release.Assets, feed.Asset{
			Name:               name,
			BrowserDownloadURL: rs.URL + "/assets/" + name,
			Size:               int64(len(data)),
		})
	}

	return rs
}

func appImageZip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entry, err := w.Create("Game.AppImage")
	require.NoError(t, err)
	_, err = entry.Write([]byte("elf bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// waitTerminal drains events until the operation's terminal event,
// checking progress monotonicity along the way.
func waitTerminal(t *testing.T, m *Manager, opID uuid.UUID) Event {
	t.Helper()

	lastPercent := -1
	deadline := time.After(10 * time.Second)
	for {
		select {
		case ev := <-m.Events():
			if ev.OpID != opID {
				continue
			}
			if ev.Terminal() {
				return ev
			}
			if ev.Progress.Percent < lastPercent {
				t.Errorf("progress went backwards: %d after %d", ev.Progress.Percent, lastPercent)
			}
			lastPercent = ev.Progress.Percent
		case <-deadline:
			t.Fatal("timed out waiting for terminal event")
		}
	}
}

func TestStartUpdate_FullFlow(t *testing.T) {
	rs := newReleaseServer(t, "v2.1", map[string][]byte{
		"Game.AppImage.zip": appImageZip(t),
	})

	baseDir := t.TempDir()
	m := New(baseDir, testLogger())
	m.SetFeedBaseURL(rs.URL)

	opID, err := m.StartUpdate(product.ProjectPlus.ID)
	require.NoError(t, err)

	ev := waitTerminal(t, m, opID)
	require.Equal(t, EventCompleted, ev.Kind, "terminal event: %v", ev.Err)

	ps, err := m.State(product.ProjectPlus.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInstalled, ps.Status)
	assert.Equal(t, "v2.1", ps.Installed.Version)
	assert.True(t, ps.Installed.Playable())

	// Marker on disk, downloaded archive cleaned up
	marker := filepath.Join(baseDir, product.ProjectPlus.DirName, state.VersionFile)
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "v2.1", string(data))

	_, err = os.Stat(filepath.Join(baseDir, "Game.AppImage.zip"))
	assert.True(t, os.IsNotExist(err), "archive should be deleted after extraction")
}

func TestStartUpdate_RejectsConcurrentOperation(t *testing.T) {
	rs := newReleaseServer(t, "v2.1", map[string][]byte{
		"Game.AppImage.zip": appImageZip(t),
	})
	rs.gate = make(chan struct{})

	m := New(t.TempDir(), testLogger())
	m.SetFeedBaseURL(rs.URL)

	opID, err := m.StartUpdate(product.ProjectPlus.ID)
	require.NoError(t, err)

	_, err = m.StartUpdate(product.ProjectPlus.ID)
	assert.ErrorIs(t, err, ErrOperationInFlight)

	_, err = m.StartTextureInstall(product.ProjectPlus.ID)
	assert.ErrorIs(t, err, ErrOperationInFlight, "texture install shares the per-product flag")

	close(rs.gate)
	ev := waitTerminal(t, m, opID)
	require.Equal(t, EventCompleted, ev.Kind)

	// Flag cleared: a new operation is accepted again
	opID2, err := m.StartUpdate(product.ProjectPlus.ID)
	require.NoError(t, err)
	waitTerminal(t, m, opID2)
}

func TestStartUpdate_FeedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := New(t.TempDir(), testLogger())
	m.SetFeedBaseURL(server.URL)

	opID, err := m.StartUpdate(product.ProjectPlus.ID)
	require.NoError(t, err)

	ev := waitTerminal(t, m, opID)
	assert.Equal(t, EventFailed, ev.Kind)
	assert.ErrorIs(t, ev.Err, feed.ErrUnavailable)

	ps, _ := m.State(product.ProjectPlus.ID)
	assert.Equal(t, StatusNotInstalled, ps.Status, "failure reverts to the prior state")
}

func TestStartUpdate_FailureKeepsPriorInstall(t *testing.T) {
	// Feed works but the asset download 404s
	rs := newReleaseServer(t, "v2.1", nil)
	rs.release.Assets = []feed.Asset{{
		Name:               "Game.AppImage.zip",
		BrowserDownloadURL: rs.URL + "/assets/Game.AppImage.zip",
		Size:               100,
	}}

	baseDir := t.TempDir()
	installDir := filepath.Join(baseDir, product.ProjectPlus.DirName)
	require.NoError(t, os.MkdirAll(installDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(installDir, state.VersionFile), []byte("v2.0"), 0644))

	m := New(baseDir, testLogger())
	m.SetFeedBaseURL(rs.URL)

	opID, err := m.StartUpdate(product.ProjectPlus.ID)
	require.NoError(t, err)

	ev := waitTerminal(t, m, opID)
	require.Equal(t, EventFailed, ev.Kind)

	ps, _ := m.State(product.ProjectPlus.ID)
	assert.Equal(t, "v2.0", ps.Installed.Version, "old marker stays intact")
	assert.NotEqual(t, StatusOperationInProgress, ps.Status)
}

func TestCheckRemote_MarksUpdateAvailable(t *testing.T) {
	rs := newReleaseServer(t, "v2.1", nil)

	baseDir := t.TempDir()
	installDir := filepath.Join(baseDir, product.ProjectPlus.DirName)
	require.NoError(t, os.MkdirAll(installDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(installDir, state.VersionFile), []byte("v2.0"), 0644))

	m := New(baseDir, testLogger())
	m.SetFeedBaseURL(rs.URL)

	opID, err := m.CheckRemote(product.ProjectPlus.ID)
	require.NoError(t, err)

	ev := waitTerminal(t, m, opID)
	require.Equal(t, EventCompleted, ev.Kind)

	ps, _ := m.State(product.ProjectPlus.ID)
	assert.Equal(t, StatusUpdateAvailable, ps.Status)
	assert.True(t, ps.UpdateAvailable())
	require.NotNil(t, ps.Latest)
	assert.Equal(t, "v2.1", ps.Latest.TagName)
}

func TestRemove(t *testing.T) {
	baseDir := t.TempDir()
	installDir := filepath.Join(baseDir, product.ProjectPlus.DirName)
	require.NoError(t, os.MkdirAll(installDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(installDir, state.VersionFile), []byte("v2.0"), 0644))

	m := New(baseDir, testLogger())

	ps, _ := m.State(product.ProjectPlus.ID)
	require.Equal(t, StatusInstalled, ps.Status)

	require.NoError(t, m.Remove(product.ProjectPlus.ID))

	ps, _ = m.State(product.ProjectPlus.ID)
	assert.Equal(t, StatusNotInstalled, ps.Status)

	_, err := os.Stat(installDir)
	assert.True(t, os.IsNotExist(err))

	// Removing again is a no-op
	assert.NoError(t, m.Remove(product.ProjectPlus.ID))
}

func TestRelocate(t *testing.T) {
	oldBase := t.TempDir()
	newBase := t.TempDir()

	// An install already exists under the new base
	installDir := filepath.Join(newBase, product.ProjectPlus.DirName)
	require.NoError(t, os.MkdirAll(installDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(installDir, state.VersionFile), []byte("v1.5"), 0644))

	m := New(oldBase, testLogger())

	ps, _ := m.State(product.ProjectPlus.ID)
	require.Equal(t, StatusNotInstalled, ps.Status)

	require.NoError(t, m.Relocate(newBase))

	assert.Equal(t, newBase, m.BaseDir())
	assert.Equal(t, installDir, m.InstallDir(product.ProjectPlus))

	ps, _ = m.State(product.ProjectPlus.ID)
	assert.Equal(t, "v1.5", ps.Installed.Version, "relocate forces a fresh scan")
}

func TestState_UnknownProduct(t *testing.T) {
	m := New(t.TempDir(), testLogger())

	_, err := m.State("no-such-game")
	assert.Error(t, err)

	_, err = m.StartUpdate("no-such-game")
	assert.Error(t, err)

	err = m.Remove("no-such-game")
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusNotInstalled, "not installed"},
		{StatusInstalled, "installed"},
		{StatusUpdateAvailable, "update available"},
		{StatusOperationInProgress, "operation in progress"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
