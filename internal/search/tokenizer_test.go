package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases", "Hello World", []string{"hello", "world"}},
		{"strips punctuation", "Mission: debrief, please!", []string{"mission", "debrief", "please"}},
		{"keeps digits", "F-16 landing", []string{"f", "16", "landing"}},
		{"keeps underscores", "server_update notes", []string{"server_update", "notes"}},
		{"keeps stop words", "the and of", []string{"the", "and", "of"}},
		{"keeps single letters", "a day", []string{"a", "day"}},
		{"accented letters", "Préparation générale", []string{"préparation", "générale"}},
		{"empty", "", nil},
		{"only punctuation", "?!... ---", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_QueryAndIndexAgree(t *testing.T) {
	// The same normalization must apply on both sides of the index.
	title := "Hello, WORLD!"
	query := "hello world"
	assert.Equal(t, Tokenize(title), Tokenize(query))
}
