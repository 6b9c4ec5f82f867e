package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts a zip archive into targetDir, preserving the
// archive's directory structure.
func ExtractZip(zipPath, targetDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", filepath.Base(zipPath), err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if err := extractEntry(f, f.Name, targetDir); err != nil {
			return err
		}
	}

	return nil
}

// ExtractZipFiltered extracts only entries whose path contains the given
// segment, re-rooted so the segment becomes the top of the output tree.
// Entries without the segment are discarded. Texture packs bundle a
// wrapper directory around the game-ID folder; this strips it.
func ExtractZipFiltered(zipPath, targetDir, segment string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", filepath.Base(zipPath), err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		relPath, ok := rerootAt(f.Name, segment)
		if !ok {
			continue
		}

		if err := extractEntry(f, relPath, targetDir); err != nil {
			return err
		}
	}

	return nil
}

// rerootAt rewrites an archive entry path to be relative to the first
// occurrence of segment as a whole path component. Zip entry names
// always use forward slashes.
func rerootAt(name, segment string) (string, bool) {
	parts := strings.Split(name, "/")
	for i, part := range parts {
		if part == segment {
			return strings.Join(parts[i:], "/"), true
		}
	}
	return "", false
}

func extractEntry(f *zip.File, relPath, targetDir string) error {
	// Zip names are slash-separated regardless of platform
	targetPath := filepath.Join(targetDir, filepath.FromSlash(relPath))

	// Security: prevent path traversal
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", relPath, err)
	}
	absTargetDir, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve target dir: %w", err)
	}
	if absTarget != absTargetDir && !strings.HasPrefix(absTarget, absTargetDir+string(filepath.Separator)) {
		return fmt.Errorf("path traversal attempt detected: %s", relPath)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(absTarget, f.Mode()); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", relPath, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(absTarget), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir for %s: %w", relPath, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read archive entry %s: %w", relPath, err)
	}
	defer rc.Close()

	mode := f.Mode()
	if mode&0400 == 0 {
		// Some archives carry no permission bits
		mode = 0644
	}

	out, err := os.OpenFile(absTarget, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", relPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %s: %w", relPath, err)
	}

	return nil
}
