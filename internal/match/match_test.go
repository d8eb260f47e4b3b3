package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words []string
		want  []string
	}{
		{name: "single hit", text: "apple banana", words: []string{"apple"}, want: []string{"apple"}},
		{name: "miss", text: "apple banana", words: []string{"durian"}, want: nil},
		{name: "substring inside word", text: "category", words: []string{"cat"}, want: []string{"cat"}},
		{name: "case sensitive", text: "Apple", words: []string{"apple"}, want: nil},
		{name: "keeps word order", text: "banana cherry apple", words: []string{"cherry", "apple"}, want: []string{"cherry", "apple"}},
		{name: "duplicate words reported once", text: "apple", words: []string{"apple", "apple"}, want: []string{"apple"}},
		{name: "spans whitespace", text: "apple banana", words: []string{"e b"}, want: []string{"e b"}},
		{name: "empty text", text: "", words: []string{"apple"}, want: nil},
		{name: "no words", text: "apple", words: nil, want: nil},
		{name: "unicode", text: "naïve café", words: []string{"café", "cafe"}, want: []string{"café"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.text, tt.words))
		})
	}
}

func TestMatch_DoesNotMutateWords(t *testing.T) {
	words := []string{"b", "a", "b"}
	_ = Match("ab", words)
	assert.Equal(t, []string{"b", "a", "b"}, words)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Dedupe([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Dedupe(nil))
}
