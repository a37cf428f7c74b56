package validation

import "regexp"

// Course slug rules:
// - Lowercase only.
// - Start and end with [a-z0-9].
// - Middle chars may include [a-z0-9-].
// - Length 1..64.
// - Excludes whitespace, uppercase and path separators explicitly.
//
// Examples valid: go-basico, react-2, a
// Examples invalid: Go-Basico, -leading, trailing-, "con espacio", "", 65+ chars.
var slugRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])?$`)

// ValidSlug returns true if the provided course slug matches the allowed pattern.
func ValidSlug(slug string) bool {
	return slugRe.MatchString(slug)
}
