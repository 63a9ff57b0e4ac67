package normalize

import "strings"

// StemSeparator separates the segments of a dotenv filename stem.
const StemSeparator = "--"

// Segments splits a filename stem into its segments.
// Dots are accepted as separators and treated exactly like "--", so
// "app--server.prod" and "app--server--prod" yield the same segments.
func Segments(stem string) []string {
	stem = strings.ReplaceAll(stem, ".", StemSeparator)
	return strings.Split(stem, StemSeparator)
}

// Prefixes returns every prefix of the stem's segment sequence joined with
// StemSeparator, shortest first.
// Example: "app--server.prod" → ["app", "app--server", "app--server--prod"].
func Prefixes(stem string) []string {
	segments := Segments(stem)
	prefixes := make([]string, 0, len(segments))
	var current strings.Builder
	for i, segment := range segments {
		if i > 0 {
			current.WriteString(StemSeparator)
		}
		current.WriteString(segment)
		prefixes = append(prefixes, current.String())
	}
	return prefixes
}
