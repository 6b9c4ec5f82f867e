package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockReleaseServer stands in for the GitHub release API and its asset
// CDN. Releases registered per owner/repo pair are served at the same
// paths the real API uses; asset payloads are served by file name.
type MockReleaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	releases map[string][]byte // "owner/repo" -> latest-release JSON
	assets   map[string][]byte // asset file name -> payload
	failures map[string]int    // path -> forced status code
	requests []string
}

// NewMockReleaseServer starts a release server that shuts down with
// the test.
func NewMockReleaseServer(t *testing.T) *MockReleaseServer {
	t.Helper()

	mock := &MockReleaseServer{
		releases: make(map[string][]byte),
		assets:   make(map[string][]byte),
		failures: make(map[string]int),
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handle))
	t.Cleanup(mock.Server.Close)

	return mock
}

func (m *MockReleaseServer) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Path)
	status := m.failures[r.URL.Path]
	m.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if body, ok := m.matchRelease(r.URL.Path); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	if payload, ok := m.matchAsset(r.URL.Path); ok {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
		return
	}

	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
}

func (m *MockReleaseServer) matchRelease(path string) ([]byte, bool) {
	for key, body := range m.releases {
		if path == "/repos/"+key+"/releases/latest" {
			return body, true
		}
	}
	return nil, false
}

func (m *MockReleaseServer) matchAsset(path string) ([]byte, bool) {
	for name, payload := range m.assets {
		if path == "/assets/"+name {
			return payload, true
		}
	}
	return nil, false
}

// AssetURL returns the download URL an asset should advertise.
func (m *MockReleaseServer) AssetURL(name string) string {
	return m.Server.URL + "/assets/" + name
}

// SetRelease registers the latest release for an owner/repo pair.
// release is marshalled to JSON, so any struct with GitHub's field tags
// works.
func (m *MockReleaseServer) SetRelease(t *testing.T, owner, repo string, release interface{}) {
	t.Helper()
	body, err := json.Marshal(release)
	if err != nil {
		t.Fatalf("marshalling release: %v", err)
	}
	m.mu.Lock()
	m.releases[owner+"/"+repo] = body
	m.mu.Unlock()
}

// SetAsset registers a downloadable asset payload.
func (m *MockReleaseServer) SetAsset(name string, payload []byte) {
	m.mu.Lock()
	m.assets[name] = payload
	m.mu.Unlock()
}

// FailPath forces a status code for one request path.
func (m *MockReleaseServer) FailPath(path string, status int) {
	m.mu.Lock()
	m.failures[path] = status
	m.mu.Unlock()
}

// RequestCount reports how many times a path was hit.
func (m *MockReleaseServer) RequestCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.requests {
		if p == path {
			count++
		}
	}
	return count
}
