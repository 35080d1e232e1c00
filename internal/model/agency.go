package model

import (
	"strings"
	"time"
	"unicode"
)

// Agency represents a government agency responsible for fulfilling standards.
// The slug is the stable identity used everywhere in the index; the display
// name is informational only. Lookups are always exact-match on slug, never
// name containment.
type Agency struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Slugify derives a stable slug from an agency name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens. Passing an existing slug
// through is a no-op, so API callers may send either form.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // trim leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
