package search

import (
	"regexp"
	"strings"
)

// tokenPattern matches word runs: letters, digits and underscores.
// Punctuation and whitespace act as separators.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize normalizes text into index tokens: lowercase word runs with
// punctuation stripped. Stop words are kept; titles are short and
// precision beats recall on a small corpus. The same function is used
// for indexing and for queries so both sides agree.
func Tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}
	return words
}
