package media

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// SanitizeTitle derives the filesystem-safe stem from a media title: every
// rune outside [a-z0-9] becomes an underscore and ASCII letters are
// lower-cased. The mapping is deterministic and must stay stable; artifact
// names and the webhook payload both depend on it.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Stem returns the artifact filename stem for one request. The sanitized
// title alone is not unique across distinct sources with identical titles,
// so a short hash of the source URL is appended; the human-readable title
// survives in metadata only.
func Stem(title, url string) string {
	sanitized := SanitizeTitle(title)
	if strings.Trim(sanitized, "_") == "" {
		sanitized = "untitled"
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	suffix := strconv.FormatUint(h.Sum64(), 16)
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return sanitized + "_" + suffix
}
