package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKey(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "case folded and trimmed",
			content: "  Hello World  ",
			want:    "hello world",
		},
		{
			name:    "tags dropped",
			content: "Hello <b>World</b>",
			want:    "hello world",
		},
		{
			name:    "whitespace collapsed",
			content: "Hello\t\t  World",
			want:    "hello world",
		},
		{
			name:    "tags only",
			content: "<b></b>",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchKey(Tokenize(tt.content), "en"))
		})
	}
}

// Differently tagged renditions of the same wording must collide on the
// match key, that is what makes exact matching markup-robust.
func TestMatchKey_TagInsensitive(t *testing.T) {
	plain := MatchKey(Tokenize("Hello world"), "en")
	tagged := MatchKey(Tokenize("<i>Hello</i> <b>world</b>"), "en")
	assert.Equal(t, plain, tagged)

	assert.Equal(t, Hash(plain), Hash(tagged))
}

func TestMatchKey_LanguageFolding(t *testing.T) {
	// turkish dotless folding differs from english
	en := MatchKey(Tokenize("ISTANBUL"), "en")
	tr := MatchKey(Tokenize("ISTANBUL"), "tr")
	assert.Equal(t, "istanbul", en)
	assert.NotEqual(t, en, tr)
}

func TestTagsSignature(t *testing.T) {
	assert.Equal(t, "<b></b>", TagsSignature(Tokenize("Hello <b>world</b>")))
	assert.Equal(t, "", TagsSignature(Tokenize("Hello world")))

	// wording does not change the signature
	assert.Equal(t,
		TagsSignature(Tokenize("<b>Hello</b>")),
		TagsSignature(Tokenize("<b>Goodbye</b>")))

	// attributes do
	assert.NotEqual(t,
		TagsSignature(Tokenize(`<x id="1"/>`)),
		TagsSignature(Tokenize(`<x id="2"/>`)))
}

func TestHash(t *testing.T) {
	a := Hash("hello world")
	b := Hash("hello world")
	c := Hash("hello worlds")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
