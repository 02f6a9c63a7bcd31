package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Token
	}{
		{
			name:    "plain text",
			content: "Hello world",
			want: []Token{
				{Kind: KindText, Content: "Hello world"},
			},
		},
		{
			name:    "paired tags",
			content: "Hello <b>world</b>",
			want: []Token{
				{Kind: KindText, Content: "Hello "},
				{Kind: KindTag, Content: "<b>", PairRole: PairRoleStart},
				{Kind: KindText, Content: "world"},
				{Kind: KindTag, Content: "</b>", PairRole: PairRoleEnd},
			},
		},
		{
			name:    "standalone tag",
			content: `before<x id="1"/>after`,
			want: []Token{
				{Kind: KindText, Content: "before"},
				{Kind: KindTag, Content: `<x id="1"/>`, PairRole: PairRoleStandalone},
				{Kind: KindText, Content: "after"},
			},
		},
		{
			name:    "unterminated tag kept as text",
			content: "broken <b content",
			want: []Token{
				{Kind: KindText, Content: "broken "},
				{Kind: KindText, Content: "<b content"},
			},
		},
		{
			name:    "unmatched end tag degrades to standalone",
			content: "oops</b> here",
			want: []Token{
				{Kind: KindText, Content: "oops"},
				{Kind: KindTag, Content: "</b>", PairRole: PairRoleStandalone},
				{Kind: KindText, Content: " here"},
			},
		},
		{
			name:    "empty content",
			content: "",
			want:    []Token{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.content)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_RenderRoundTrip(t *testing.T) {
	contents := []string{
		"Hello <b>world</b>",
		`a<x id="1"/>b`,
		"plain",
		"nested <i>one <b>two</b></i> done",
		"broken <b never closed",
		"</closes>nothing",
	}

	for _, content := range contents {
		assert.Equal(t, content, Render(Tokenize(content)))
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "b", Name(Token{Kind: KindTag, Content: "<b>"}))
	assert.Equal(t, "b", Name(Token{Kind: KindTag, Content: "</b>"}))
	assert.Equal(t, "x", Name(Token{Kind: KindTag, Content: `<x id="1"/>`}))
	assert.Equal(t, "", Name(Token{Kind: KindText, Content: "text"}))
}

func TestHasText(t *testing.T) {
	assert.True(t, HasText(Tokenize("Hello")))
	assert.True(t, HasText(Tokenize("<b>x</b>")))
	assert.False(t, HasText(Tokenize("<b></b>")))
	assert.False(t, HasText(Tokenize("   ")))
	assert.False(t, HasText(nil))
}

func TestMarshalUnmarshal(t *testing.T) {
	tokens := Tokenize("Hello <b>world</b>")

	data, err := Marshal(tokens)
	assert.NoError(t, err)

	got, err := Unmarshal(data)
	assert.NoError(t, err)
	assert.Equal(t, tokens, got)

	// nil marshals to an empty array, not null
	data, err = Marshal(nil)
	assert.NoError(t, err)
	assert.Equal(t, "[]", data)

	// an empty column reads as an empty sequence
	got, err = Unmarshal("")
	assert.NoError(t, err)
	assert.Equal(t, []Token{}, got)
}
