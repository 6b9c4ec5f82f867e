package integration

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/the-outcaster/projectplus-updater/internal/feed"
	"github.com/the-outcaster/projectplus-updater/internal/manager"
	updtest "github.com/the-outcaster/projectplus-updater/testing"
)

// TestEnvironment bundles everything an end-to-end scenario needs: a
// mock release server, an install base directory, and a manager wired
// to both.
type TestEnvironment struct {
	T       *testing.T
	BaseDir string
	Server  *updtest.MockReleaseServer
	Manager *manager.Manager
}

// SetupTestEnvironment builds a fresh environment per test.
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	server := updtest.NewMockReleaseServer(t)
	baseDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := manager.New(baseDir, logger)
	m.SetFeedBaseURL(server.URL)

	return &TestEnvironment{
		T:       t,
		BaseDir: baseDir,
		Server:  server,
		Manager: m,
	}
}

// PublishSingleArchiveRelease registers a latest release for an
// owner/repo pair with one primary archive containing an AppImage.
func (env *TestEnvironment) PublishSingleArchiveRelease(owner, repo, tag, appImageName string) {
	env.T.Helper()

	archiveName := appImageName + ".zip"
	payload := updtest.BuildAppImageZip(env.T, appImageName)
	env.Server.SetAsset(archiveName, payload)

	env.Server.SetRelease(env.T, owner, repo, feed.Release{
		TagName: tag,
		Name:    repo + " " + tag,
		Body:    "Release notes for " + tag,
		Assets: []feed.Asset{
			{Name: archiveName, BrowserDownloadURL: env.Server.AssetURL(archiveName), Size: int64(len(payload))},
		},
	})
}

// PublishSplitArchiveRelease registers a release whose build ships as
// numbered split-archive parts that only 7z can join.
func (env *TestEnvironment) PublishSplitArchiveRelease(owner, repo, tag string, partCount int) {
	env.T.Helper()

	var assets []feed.Asset
	for i := 1; i <= partCount; i++ {
		name := fmt.Sprintf("%s.zip.%03d", repo, i)
		payload := []byte("part " + name)
		env.Server.SetAsset(name, payload)
		assets = append(assets, feed.Asset{
			Name:               name,
			BrowserDownloadURL: env.Server.AssetURL(name),
			Size:               int64(len(payload)),
		})
	}

	env.Server.SetRelease(env.T, owner, repo, feed.Release{
		TagName: tag,
		Name:    repo + " " + tag,
		Assets:  assets,
	})
}

// InstallFakeSevenZip puts a stand-in 7z on PATH that creates the
// output directory and drops a launchable AppImage into it.
func InstallFakeSevenZip(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	script := `#!/bin/sh
out=""
for arg in "$@"; do
  case "$arg" in
    -o*) out="${arg#-o}" ;;
  esac
done
mkdir -p "$out"
printf 'joined build' > "$out/REX.AppImage"
exit 0
`
	if err := os.WriteFile(filepath.Join(dir, "7z"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// WaitForOperation drains events until the operation's terminal event
// and returns its error, if any.
func (env *TestEnvironment) WaitForOperation(opID uuid.UUID) error {
	env.T.Helper()

	deadline := time.After(15 * time.Second)
	for {
		select {
		case ev := <-env.Manager.Events():
			if ev.OpID != opID {
				continue
			}
			switch ev.Kind {
			case manager.EventCompleted:
				return nil
			case manager.EventFailed:
				return ev.Err
			}
		case <-deadline:
			env.T.Fatal("timed out waiting for operation to finish")
			return nil
		}
	}
}

// RunUpdate starts an update and waits for it to finish.
func (env *TestEnvironment) RunUpdate(productID string) error {
	env.T.Helper()

	opID, err := env.Manager.StartUpdate(productID)
	if err != nil {
		return err
	}
	return env.WaitForOperation(opID)
}
