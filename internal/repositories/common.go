package repositories

import "strings"

// escapeLike neutralizes LIKE wildcards in user-supplied keywords so a
// search for "50%" matches the literal text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
