package tui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// releaseMsg reports a newer published build, or nothing ("").
type releaseMsg struct{ latest string }

// checkRelease looks up the latest release in the background. Dev builds
// and any failure produce no notice.
func checkRelease(url, current string) tea.Cmd {
	if url == "" || current == "" || current == "dev" {
		return nil
	}
	return func() tea.Msg {
		hc := &http.Client{Timeout: 5 * time.Second}
		resp, err := hc.Get(url)
		if err != nil {
			return releaseMsg{}
		}
		defer resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusOK {
			return releaseMsg{}
		}
		var release struct {
			TagName string `json:"tag_name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
			return releaseMsg{}
		}
		if newerRelease(release.TagName, current) {
			return releaseMsg{latest: "v" + strings.TrimPrefix(release.TagName, "v")}
		}
		return releaseMsg{}
	}
}

// newerRelease compares major.minor.patch; missing or non-numeric parts
// count as zero.
func newerRelease(latest, current string) bool {
	l, c := releaseParts(latest), releaseParts(current)
	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func releaseParts(v string) [3]int {
	var out [3]int
	for i, p := range strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3) {
		out[i], _ = strconv.Atoi(p) //nolint:errcheck
	}
	return out
}
