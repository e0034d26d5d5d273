package formatting

import "unicode/utf8"

// Truncate returns at most n characters of s, never splitting a UTF-8 sequence.
// Non-positive n returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
