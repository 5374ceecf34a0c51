package testutil

import "strings"

// MaxFuzzBytes caps fuzz inputs so a single case stays fast.
const MaxFuzzBytes = 2048

// ClampString truncates data to at most max bytes.
func ClampString(data string, max int) string {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// FuzzWords splits fuzz input into a word vector the way the applet splits
// a typed command line, capped at max words.
func FuzzWords(data string, max int) []string {
	words := strings.Fields(ClampString(data, MaxFuzzBytes))
	if len(words) > max {
		words = words[:max]
	}
	return words
}
