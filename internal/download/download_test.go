package download

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// TestFetch_Success tests a complete download with progress reporting
func TestFetch_Success(t *testing.T) {
	payload := bytes.Repeat([]byte("projectplus"), 100)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.zip")

	var snapshots []Progress
	err := Fetch(server.URL+"/asset.zip", dest, func(p Progress) {
		snapshots = append(snapshots, p)
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("downloaded %d bytes, want %d", len(data), len(payload))
	}

	if len(snapshots) == 0 {
		t.Fatal("Fetch() reported no progress")
	}

	// Bytes are non-decreasing and the final call reports the full size
	var prev int64 = -1
	for i, p := range snapshots {
		if p.BytesDone < prev {
			t.Errorf("snapshot %d: BytesDone %d decreased from %d", i, p.BytesDone, prev)
		}
		prev = p.BytesDone
	}
	final := snapshots[len(snapshots)-1]
	if final.BytesDone != int64(len(payload)) {
		t.Errorf("final BytesDone = %d, want %d", final.BytesDone, len(payload))
	}
	if final.BytesTotal != int64(len(payload)) {
		t.Errorf("final BytesTotal = %d, want %d", final.BytesTotal, len(payload))
	}
}

// TestFetch_HTTPError tests that non-2xx responses carry the status code
func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.zip")

	err := Fetch(server.URL+"/missing.zip", dest, nil)
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Fetch() error = %T, want *HTTPError", err)
	}
	if httpErr.Status != http.StatusNotFound {
		t.Errorf("HTTPError.Status = %d, want %d", httpErr.Status, http.StatusNotFound)
	}
}

// TestFetch_ConnectionFailure tests transport failure mapping
func TestFetch_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed on purpose

	dest := filepath.Join(t.TempDir(), "asset.zip")

	err := Fetch(server.URL+"/asset.zip", dest, nil)
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("Fetch() error = %T, want *NetworkError", err)
	}
}

// TestFetch_OverwritesExisting tests that a stale file at the target is replaced
func TestFetch_OverwritesExisting(t *testing.T) {
	payload := []byte("fresh contents")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.zip")
	if err := os.WriteFile(dest, []byte("stale leftovers from an earlier run"), 0644); err != nil {
		t.Fatalf("failed to seed stale file: %v", err)
	}

	if err := Fetch(server.URL+"/asset.zip", dest, nil); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("downloaded file = %q, want %q", data, payload)
	}
}

// TestProgress_Percent tests percentage math including unknown totals
func TestProgress_Percent(t *testing.T) {
	tests := []struct {
		name string
		p    Progress
		want int
	}{
		{"zero total", Progress{BytesDone: 100, BytesTotal: 0}, 0},
		{"unknown total", Progress{BytesDone: 100, BytesTotal: -1}, 0},
		{"half done", Progress{BytesDone: 50, BytesTotal: 100}, 50},
		{"complete", Progress{BytesDone: 1000, BytesTotal: 1000}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Percent(); got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}
