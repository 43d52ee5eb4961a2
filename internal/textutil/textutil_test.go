package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"machine", "learning", "models"}, Terms("The Machine learning models"))
	assert.Nil(t, Terms("the and of"))
	assert.Nil(t, Terms("  123 "))
}

func TestWordsKeepsApostrophes(t *testing.T) {
	assert.Equal(t, []string{"don't", "panic"}, Words("Don't panic"))
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"One.", "Two!", "Three?"}, Sentences("One. Two! Three?"))
	assert.Equal(t, []string{"no punctuation"}, Sentences("  no punctuation  "))
	assert.Nil(t, Sentences("   "))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter", "abc", 10, "abc"},
		{"exact", "abc", 3, "abc"},
		{"cut", "abcdef", 4, "abcd"},
		{"multibyte", "héllo wörld", 7, "héllo w"},
		{"zero", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}
