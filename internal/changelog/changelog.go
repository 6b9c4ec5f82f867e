// Package changelog formats release-feed bodies for terminal display.
package changelog

import (
	"fmt"
	"strings"

	"github.com/the-outcaster/projectplus-updater/internal/feed"
)

// Format renders a release's changelog. Feed bodies arrive with CRLF
// line endings; they are normalized for the terminal.
func Format(release *feed.Release) string {
	title := release.Name
	if title == "" {
		title = release.TagName
	}

	body := Normalize(release.Body)
	if body == "" {
		body = "No changelog found."
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("Changelog for %s\n", title))
	out.WriteString(strings.Repeat("=", len("Changelog for ")+len(title)))
	out.WriteString("\n\n")
	out.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		out.WriteString("\n")
	}

	return out.String()
}

// Normalize converts CRLF line endings and trims trailing whitespace.
func Normalize(body string) string {
	return strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
}
