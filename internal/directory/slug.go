package directory

import (
	"strings"
)

// Slugify derives a URL slug from a listing name: lowercase, hyphen-separated,
// restricted to [a-z0-9-]. Route slugs are always lowercase; mixed-case paths
// like /Institutions are normalized before they reach storage.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphens

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// NormalizeSlug lowercases and trims a caller-provided slug
func NormalizeSlug(slug string) string {
	return Slugify(slug)
}
