package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultVersionsURL is the game version document of the data repository.
const DefaultVersionsURL = "https://raw.githubusercontent.com/myssal/PGR_Data/master/version.json"

// VersionRegions lists the regions of the version table, in display order.
var VersionRegions = []string{"CN", "EN", "JP", "KR", "TW"}

// Versions maps a region key to a client version. PC builds use the
// region key suffixed with "_PC".
type Versions map[string]string

// VersionRow is one line of the version table.
type VersionRow struct {
	Region  string
	Android string
	PC      string
}

// Rows returns the table rows. Missing versions read "N/A".
func (v Versions) Rows() []VersionRow {
	value := func(key string) string {
		if s := v[key]; s != "" {
			return s
		}
		return "N/A"
	}
	rows := make([]VersionRow, 0, len(VersionRegions))
	for _, r := range VersionRegions {
		rows = append(rows, VersionRow{Region: r, Android: value(r), PC: value(r + "_PC")})
	}
	return rows
}

// FetchVersions downloads the version document. Non-string values are
// ignored.
func FetchVersions(ctx context.Context, client *http.Client, url string) (Versions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode versions: %w", err)
	}
	v := make(Versions, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			v[k] = s
		}
	}
	return v, nil
}
