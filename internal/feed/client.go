package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUnavailable indicates the release endpoint could not be reached
	// or answered with a non-2xx status.
	ErrUnavailable = errors.New("release feed unavailable")
	// ErrMalformed indicates the endpoint answered but the document is
	// missing required fields.
	ErrMalformed = errors.New("release feed malformed")
)

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Release is the latest-release document for a product. It is produced
// fresh on every query and never persisted.
type Release struct {
	TagName string  `json:"tag_name"`
	Name    string  `json:"name"`
	Body    string  `json:"body"`
	Assets  []Asset `json:"assets"`
}

// Client queries the GitHub releases API for one repository.
type Client struct {
	owner      string
	repo       string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a release feed client. A nil httpClient gets a
// default with a 30 second timeout.
func NewClient(owner, repo string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &Client{
		owner:      owner,
		repo:       repo,
		httpClient: httpClient,
		baseURL:    "https://api.github.com",
	}
}

// SetBaseURL overrides the API base URL (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Latest fetches the latest release for the repository. It blocks on
// network I/O; callers run it off the interactive goroutine.
func (c *Client) Latest() (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "projectplus-updater")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if release.TagName == "" {
		return nil, fmt.Errorf("%w: missing tag_name", ErrMalformed)
	}

	return &release, nil
}

// TotalSize sums the byte sizes of the given assets.
func TotalSize(assets []Asset) int64 {
	var total int64
	for _, a := range assets {
		total += a.Size
	}
	return total
}
