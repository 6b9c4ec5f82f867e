package testing

import (
	"archive/zip"
	"bytes"
	"path"
	"testing"
)

// BuildZip produces an in-memory zip archive from a name -> content
// map. Entry names use forward slashes.
func BuildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// BuildAppImageZip produces a release archive containing a launchable
// AppImage plus the support files a real build ships with.
func BuildAppImageZip(t *testing.T, appImageName string) []byte {
	t.Helper()
	return BuildZip(t, map[string]string{
		appImageName: "fake appimage binary",
		"readme.txt": "release notes\n",
	})
}

// BuildTextureZip produces a texture-pack archive whose textures sit
// under nested directories ending in the given game ID segment, the
// layout filtered extraction has to re-root.
func BuildTextureZip(t *testing.T, gameID string) []byte {
	t.Helper()
	return BuildZip(t, map[string]string{
		path.Join("HD-Pack-v3", gameID, "tex1.png"):           "texture one",
		path.Join("HD-Pack-v3", gameID, "stages", "tex2.png"): "texture two",
		"HD-Pack-v3/README.md":                                "ignored",
	})
}
