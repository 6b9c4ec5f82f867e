// Package archive orchestrates asset acquisition and extraction for one
// product release: downloads, the variant-specific unpack step, and
// temp-file cleanup. Version bookkeeping stays with the caller so a
// failure here never leaves a marker pointing at a half-extracted tree.
package archive

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/the-outcaster/projectplus-updater/internal/download"
	"github.com/the-outcaster/projectplus-updater/internal/feed"
	"github.com/the-outcaster/projectplus-updater/internal/product"
)

// Download progress fills 0-80 of the overall budget; extraction steps
// to 85 and completion to 100, matching the launcher's progress bar.
const (
	downloadBudget    = 80
	extractingPercent = 85
	donePercent       = 100
)

// Progress describes one step of an install operation.
type Progress struct {
	Stage    string // "downloading", "extracting", "done"
	Asset    string // asset name for download stages
	Percent  int    // 0-100 across the whole operation
	Download download.Progress // zero value outside download stages
}

// ProgressFunc receives install progress updates. Percent is
// non-decreasing for the lifetime of one operation.
type ProgressFunc func(Progress)

// ExtractionError carries the diagnostic output of a failed extraction.
type ExtractionError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s extraction failed: %s", e.Tool, e.Output)
	}
	return fmt.Sprintf("%s extraction failed: %v", e.Tool, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Installer acquires and extracts release assets for one product variant.
type Installer struct {
	// SevenZip is the external tool used for split archives.
	SevenZip string
	// DownloadDir holds in-flight archives; multi-gigabyte temporaries
	// are deleted from it after extraction, on failure paths too.
	DownloadDir string

	fetch func(url, dest string, cb download.ProgressFunc) error
}

// New creates an installer that stages downloads in downloadDir.
func New(downloadDir string) *Installer {
	return &Installer{
		SevenZip:    "7z",
		DownloadDir: downloadDir,
		fetch:       download.Fetch,
	}
}

// InstallRelease downloads and extracts every asset the release needs
// for the product's variant into installDir. It does not write the
// version marker; the caller persists state only on a nil return.
func (in *Installer) InstallRelease(p product.Product, rel *feed.Release, installDir string, progress ProgressFunc) error {
	// The feed is remote data: validate against the product's variant,
	// not just general installability, before touching any asset.
	set := feed.Classify(rel.Assets)
	switch p.Strategy {
	case product.StrategySplitArchive:
		if len(set.Parts) == 0 {
			return fmt.Errorf("release %s of %s has no installable archive assets", rel.TagName, p.DisplayName)
		}
	default:
		if set.Primary == nil {
			return fmt.Errorf("release %s of %s has no installable archive assets", rel.TagName, p.DisplayName)
		}
	}

	if err := os.MkdirAll(installDir, 0755); err != nil {
		return fmt.Errorf("failed to create install dir: %w", err)
	}

	switch p.Strategy {
	case product.StrategySplitArchive:
		return in.installSplit(set.Parts, installDir, progress)
	default:
		return in.installSingle(*set.Primary, installDir, progress)
	}
}

func (in *Installer) installSingle(asset feed.Asset, installDir string, progress ProgressFunc) error {
	archivePath, err := in.downloadAsset(asset, 0, downloadBudget, progress)
	if err != nil {
		return err
	}

	report(progress, Progress{Stage: "extracting", Asset: asset.Name, Percent: extractingPercent})
	if err := ExtractZip(archivePath, installDir); err != nil {
		return &ExtractionError{Tool: "zip", Err: err}
	}
	report(progress, Progress{Stage: "done", Percent: donePercent})

	return os.Remove(archivePath)
}

func (in *Installer) installSplit(parts []feed.Asset, installDir string, progress ProgressFunc) error {
	partPaths := make([]string, 0, len(parts))

	for i, part := range parts {
		// Equal slices of the download budget, with the boundaries
		// computed so the last part ends exactly on the budget.
		start := i * downloadBudget / len(parts)
		end := (i + 1) * downloadBudget / len(parts)

		// A failed download leaves its partial file in place for
		// diagnosis; the caller decides whether to retry from scratch.
		path, err := in.downloadAsset(part, start, end-start, progress)
		if err != nil {
			return err
		}
		partPaths = append(partPaths, path)
	}

	// Once extraction starts, part files are deleted whether or not it
	// succeeds; orphaned multi-gigabyte temporaries are worse than a
	// re-download.
	defer func() {
		for _, path := range partPaths {
			_ = os.Remove(path)
		}
	}()

	report(progress, Progress{Stage: "extracting", Asset: parts[0].Name, Percent: extractingPercent})

	// The tool reads the first part and follows the naming convention
	// to locate the rest itself.
	cmd := exec.Command(in.SevenZip, "x", partPaths[0], "-o"+installDir, "-y")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ExtractionError{Tool: in.SevenZip, Output: stderr.String(), Err: err}
	}

	report(progress, Progress{Stage: "done", Percent: donePercent})
	return nil
}

// InstallTexturePack downloads and unpacks an HD texture asset. The
// target is derived from the launchable artifact's location, not the
// install dir, because Dolphin resolves texture lookups relative to
// where the runtime artifact lives.
func (in *Installer) InstallTexturePack(p product.Product, asset feed.Asset, launchablePath string, progress ProgressFunc) error {
	if launchablePath == "" {
		return fmt.Errorf("cannot install textures for %s: no launchable artifact installed", p.DisplayName)
	}

	dolphinDir := filepath.Join(filepath.Dir(launchablePath), filepath.FromSlash(product.DolphinUserDir))

	var extractDir string
	switch p.TextureLayout {
	case product.TextureFiltered:
		extractDir = filepath.Join(dolphinDir, "Load", "Textures")
	default:
		extractDir = dolphinDir
	}

	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return fmt.Errorf("failed to create texture dir: %w", err)
	}

	archivePath, err := in.downloadAsset(asset, 0, downloadBudget, progress)
	if err != nil {
		return err
	}

	report(progress, Progress{Stage: "extracting", Asset: asset.Name, Percent: extractingPercent})

	switch p.TextureLayout {
	case product.TextureFiltered:
		err = ExtractZipFiltered(archivePath, extractDir, product.GameID)
	default:
		err = ExtractZip(archivePath, extractDir)
	}
	if err != nil {
		return &ExtractionError{Tool: "zip", Err: err}
	}

	report(progress, Progress{Stage: "done", Percent: donePercent})
	return os.Remove(archivePath)
}

// TextureDir returns where a product's custom textures end up, for
// display after an install.
func TextureDir(launchablePath string) string {
	return filepath.Join(filepath.Dir(launchablePath), filepath.FromSlash(product.DolphinUserDir), "Load", "Textures", product.GameID)
}

// downloadAsset fetches one asset into the staging dir, mapping its
// byte progress onto [startPercent, startPercent+share] of the overall
// budget.
func (in *Installer) downloadAsset(asset feed.Asset, startPercent, share int, progress ProgressFunc) (string, error) {
	dest := filepath.Join(in.DownloadDir, asset.Name)

	err := in.fetch(asset.BrowserDownloadURL, dest, func(p download.Progress) {
		report(progress, Progress{
			Stage:    "downloading",
			Asset:    asset.Name,
			Percent:  startPercent + p.Percent()*share/100,
			Download: p,
		})
	})
	if err != nil {
		return "", err
	}

	return dest, nil
}

func report(progress ProgressFunc, p Progress) {
	if progress != nil {
		progress(p)
	}
}
