// Package match tests which target words occur in a file's text.
//
// Matching is a raw, case-sensitive substring test. There is no tokenization and
// no word-boundary check, so "cat" matches inside "category".
package match

import "strings"

// Match returns the words that occur as a substring of text, in first-seen order.
// Duplicate words are reported once.
func Match(text string, words []string) []string {
	if len(words) == 0 {
		return nil
	}

	var found []string
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}

// Dedupe returns words with duplicates removed, preserving first-seen order.
func Dedupe(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
