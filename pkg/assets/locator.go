// Package assets maps raw content paths from catalog records to retrieval
// URLs in the asset repository.
//
// Backing storage keeps directories lower-case while filenames keep their
// original case, so only the directory part of a path is folded.
package assets

import (
	"regexp"
	"strings"
)

// Purpose selects how a raw path is transformed.
type Purpose int

const (
	// Thumbnail maps to the pre-rendered small image under thumbnails/.
	Thumbnail Purpose = iota
	// Full maps to the full-resolution image with a canonical extension.
	Full
	// Raw keeps the filename as is, for icons and stickers stored pre-sized.
	Raw
)

func (p Purpose) String() string {
	switch p {
	case Thumbnail:
		return "thumbnail"
	case Full:
		return "full"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParsePurpose converts a purpose name. Unknown names map to Raw.
func ParsePurpose(s string) Purpose {
	switch strings.ToLower(s) {
	case "thumbnail", "thumb":
		return Thumbnail
	case "full", "cg":
		return Full
	default:
		return Raw
	}
}

const (
	// DefaultBaseURL serves the asset repository's master branch.
	DefaultBaseURL = "https://raw.githubusercontent.com/myssal/PGR-Assets/master"

	thumbnailDir    = "thumbnails"
	thumbnailSuffix = "_thumb.webp"
	fullExtension   = ".png"
)

var (
	rootPrefix      = regexp.MustCompile(`^Assets[\\/]`)
	sourceExtension = regexp.MustCompile(`(?i)\.(jpg|png|jpeg)$`)
)

// Locator resolves raw content paths against a base URL.
type Locator struct {
	baseURL string
}

// NewLocator creates a locator. An empty base URL uses DefaultBaseURL.
func NewLocator(baseURL string) *Locator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Locator{baseURL: strings.TrimRight(baseURL, "/")}
}

// RepoBaseURL builds the base URL for a GitHub repository and branch.
func RepoBaseURL(repo, branch string) string {
	return "https://raw.githubusercontent.com/" + repo + "/" + branch
}

// BaseURL returns the configured base URL.
func (l *Locator) BaseURL() string {
	return l.baseURL
}

// Resolve returns the retrieval URL for rawPath, or "" when rawPath is
// empty or has no filename.
func (l *Locator) Resolve(rawPath string, purpose Purpose) string {
	rel := RelativePath(rawPath, purpose)
	if rel == "" {
		return ""
	}
	return l.baseURL + "/" + rel
}

// RelativePath applies the path normalization of Resolve without the base
// URL.
func RelativePath(rawPath string, purpose Purpose) string {
	rawPath = strings.TrimSpace(rawPath)
	if rawPath == "" {
		return ""
	}

	rel := rootPrefix.ReplaceAllString(rawPath, "")
	rel = strings.ReplaceAll(rel, `\`, "/")

	dir, filename := "", rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		dir, filename = strings.ToLower(rel[:i]), rel[i+1:]
	}
	if filename == "" {
		return ""
	}

	switch purpose {
	case Thumbnail:
		base := sourceExtension.ReplaceAllString(filename, "")
		return join(thumbnailDir, dir, base+thumbnailSuffix)
	case Full:
		base := sourceExtension.ReplaceAllString(filename, "")
		return join(dir, base+fullExtension)
	default:
		return join(dir, filename)
	}
}

func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
