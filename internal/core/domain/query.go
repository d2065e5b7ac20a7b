package domain

import (
	"fmt"
	"strings"
)

// AllCollectionsMarker is the default wire value meaning "no collection restriction".
const AllCollectionsMarker = "-"

// AllCollectionsLabel is the display label of the unrestricted scope.
const AllCollectionsLabel = "All collections"

// PreviewLength is the number of characters shown before a result is expanded.
const PreviewLength = 100

// Ellipsis marks a truncated preview.
const Ellipsis = "…"

// QueryResult is one ranked chunk returned by the query endpoint.
type QueryResult struct {
	ChunkNumber      int     `json:"chunk_number"`
	Content          string  `json:"chunk_content"`
	Distance         float64 `json:"distance"`
	DocumentFilename string  `json:"document_filename"`
	CollectionName   string  `json:"collection_name"`
}

// Preview returns the first PreviewLength characters of the content,
// followed by Ellipsis when the content is longer.
func (r QueryResult) Preview() string {
	return TruncatePreview(r.Content, PreviewLength)
}

// FormattedDistance returns the distance with four decimal places.
func (r QueryResult) FormattedDistance() string {
	return FormatDistance(r.Distance)
}

// TruncatePreview cuts s to n characters and appends Ellipsis if anything was cut.
func TruncatePreview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + Ellipsis
}

// FormatDistance formats a distance score to four decimal places.
func FormatDistance(d float64) string {
	return fmt.Sprintf("%.4f", d)
}

// Scope restricts a query to a set of collections.
// The zero value is the unrestricted scope.
type Scope struct {
	names []string
}

// AllScope returns the unrestricted scope.
func AllScope() Scope {
	return Scope{}
}

// ScopeOf returns a scope over the given names in order. Blank names,
// duplicates and the all-collections marker are dropped; if nothing is
// left the unrestricted scope is returned.
func ScopeOf(names ...string) Scope {
	seen := make(map[string]bool, len(names))
	kept := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || n == AllCollectionsMarker || seen[n] {
			continue
		}
		seen[n] = true
		kept = append(kept, n)
	}
	if len(kept) == 0 {
		return Scope{}
	}
	return Scope{names: kept}
}

// ParseScope parses a comma-separated list of collection names.
func ParseScope(s string) Scope {
	return ScopeOf(strings.Split(s, ",")...)
}

// IsAll reports whether the scope is unrestricted.
func (s Scope) IsAll() bool {
	return len(s.names) == 0
}

// Names returns a copy of the concrete collection names in selection order.
func (s Scope) Names() []string {
	if s.IsAll() {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Wire returns the request value for the query endpoint: allMarker for the
// unrestricted scope, otherwise the names joined by commas.
func (s Scope) Wire(allMarker string) string {
	if s.IsAll() {
		if allMarker == "" {
			return AllCollectionsMarker
		}
		return allMarker
	}
	return strings.Join(s.names, ",")
}

// Label returns a human-readable description of the scope.
func (s Scope) Label() string {
	if s.IsAll() {
		return AllCollectionsLabel
	}
	return strings.Join(s.names, ", ")
}

// String implements fmt.Stringer.
func (s Scope) String() string {
	return s.Label()
}
