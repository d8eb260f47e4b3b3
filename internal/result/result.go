// Package result holds the word -> files mapping produced by a scan and the
// union merge that combines per-batch mappings into the final one.
package result

import (
	"encoding/json"
	"sort"
)

// FileSet is a set of file paths.
type FileSet map[string]struct{}

// Sorted returns the paths in lexical order.
func (s FileSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Result maps a word to the set of files that contain it.
// A word with no matching file is never present as a key.
type Result map[string]FileSet

// Add records that file contains word.
func (r Result) Add(word, file string) {
	set, ok := r[word]
	if !ok {
		set = make(FileSet)
		r[word] = set
	}
	set[file] = struct{}{}
}

// Has reports whether file is recorded for word.
func (r Result) Has(word, file string) bool {
	_, ok := r[word][file]
	return ok
}

// Words returns the matched words in lexical order.
func (r Result) Words() []string {
	out := make([]string, 0, len(r))
	for w := range r {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Files returns the files recorded for word in lexical order.
func (r Result) Files(word string) []string {
	return r[word].Sorted()
}

// Equal reports whether two results hold exactly the same word -> files pairs.
func (r Result) Equal(other Result) bool {
	if len(r) != len(other) {
		return false
	}
	for w, set := range r {
		o, ok := other[w]
		if !ok || len(o) != len(set) {
			return false
		}
		for f := range set {
			if _, ok := o[f]; !ok {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the result as {"word": ["sorted", "paths"]}.
func (r Result) MarshalJSON() ([]byte, error) {
	plain := make(map[string][]string, len(r))
	for w, set := range r {
		plain[w] = set.Sorted()
	}
	return json.Marshal(plain)
}

// UnmarshalJSON decodes the {"word": [paths]} form. Words with an empty path
// list are dropped.
func (r *Result) UnmarshalJSON(data []byte) error {
	var plain map[string][]string
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	out := make(Result, len(plain))
	for w, files := range plain {
		for _, f := range files {
			out.Add(w, f)
		}
	}
	*r = out
	return nil
}

// Failure records a file that could not be scanned.
type Failure struct {
	Path  string `json:"path"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// Partial is what scanning one batch yields: its matches and the files it skipped.
type Partial struct {
	Matches  Result    `json:"matches"`
	Failures []Failure `json:"failures,omitempty"`
}
