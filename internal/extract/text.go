package extract

import "strings"

// Truncate caps text at max characters (runes). max <= 0 disables the cap.
func Truncate(text string, max int) string {
	if text == "" || max <= 0 {
		return text
	}
	if len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// CleanText collapses runs of whitespace, as left behind by flattened DOM
// text, into single spaces.
func CleanText(text string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(text, " "))
}
