package slotpath

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxSlotRunes bounds slot names for filesystem compatibility
const maxSlotRunes = 64

// Slugify converts a user-supplied slot name into a filesystem-safe
// slug: NFKC normalization, lowercase, and only characters from
// a-z, 0-9 and hyphen. Runs of other characters collapse to a single
// hyphen. An empty result falls back to "slot".
func Slugify(name string) string {
	name = norm.NFKC.String(name)
	name = strings.ToLower(name)

	var b strings.Builder
	lastHyphen := true // swallow leading hyphens
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "slot"
	}

	runes := []rune(slug)
	if len(runes) > maxSlotRunes {
		slug = strings.Trim(string(runes[:maxSlotRunes]), "-")
	}
	return slug
}
