package token

import (
	"encoding/json"
	"strings"
)

type Kind string

const (
	KindText Kind = "text"
	KindTag  Kind = "tag"
)

type PairRole string

const (
	PairRoleStart      PairRole = "start"
	PairRoleEnd        PairRole = "end"
	PairRoleStandalone PairRole = "standalone"
)

// Token is one atomic unit of segment content, either a run of plain text
// or a single inline markup tag. Tag tokens keep their literal markup in
// Content so a token sequence can be rendered back byte-for-byte.
type Token struct {
	Kind     Kind     `json:"kind"`
	Content  string   `json:"content"`
	PairRole PairRole `json:"pairRole,omitempty"`
}

// Tokenize splits raw rich-text content into an ordered token sequence.
// A run of characters outside tag delimiters becomes one text token, each
// <...> region becomes one tag token. The scan is total: malformed markup
// never fails, an unterminated '<' is kept as literal text and an end tag
// with no matching open tag degrades to a standalone tag.
func Tokenize(content string) []Token {
	tokens := make([]Token, 0)

	for len(content) > 0 {
		open := strings.IndexByte(content, '<')
		if open == -1 {
			tokens = append(tokens, Token{Kind: KindText, Content: content})
			break
		}

		if open > 0 {
			tokens = append(tokens, Token{Kind: KindText, Content: content[:open]})
			content = content[open:]
		}

		close := strings.IndexByte(content, '>')
		if close == -1 {
			// unterminated tag, keep the rest as literal text
			tokens = append(tokens, Token{Kind: KindText, Content: content})
			break
		}

		raw := content[:close+1]
		tokens = append(tokens, Token{Kind: KindTag, Content: raw, PairRole: classify(raw)})
		content = content[close+1:]
	}

	return pair(tokens)
}

func classify(raw string) PairRole {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
	if strings.HasPrefix(inner, "/") {
		return PairRoleEnd
	}
	if strings.HasSuffix(inner, "/") {
		return PairRoleStandalone
	}
	return PairRoleStart
}

// pair walks the tag tokens and downgrades end tags that close nothing to
// standalone. Literal tag content is never touched.
func pair(tokens []Token) []Token {
	var open []string
	for i, t := range tokens {
		if t.Kind != KindTag {
			continue
		}
		switch t.PairRole {
		case PairRoleStart:
			open = append(open, Name(t))
		case PairRoleEnd:
			matched := false
			for j := len(open) - 1; j >= 0; j-- {
				if open[j] == Name(t) {
					open = append(open[:j], open[j+1:]...)
					matched = true
					break
				}
			}
			if !matched {
				tokens[i].PairRole = PairRoleStandalone
			}
		}
	}
	return tokens
}

// Name extracts the tag name from a tag token, e.g. "b" from "</b>" or
// "x" from `<x id="1"/>`. Returns "" for text tokens.
func Name(t Token) string {
	if t.Kind != KindTag {
		return ""
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(t.Content, "<"), ">")
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "/"), "/")
	if i := strings.IndexAny(inner, " \t"); i != -1 {
		inner = inner[:i]
	}
	return inner
}

// Render joins the token contents back into the original raw string.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Content)
	}
	return b.String()
}

// HasText reports whether the sequence carries any non-whitespace text.
func HasText(tokens []Token) bool {
	for _, t := range tokens {
		if t.Kind == KindText && strings.TrimSpace(t.Content) != "" {
			return true
		}
	}
	return false
}

// Marshal encodes a token sequence as a JSON array for storage.
func Marshal(tokens []Token) (string, error) {
	if tokens == nil {
		tokens = make([]Token, 0)
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Unmarshal decodes a stored token sequence. An empty column decodes to an
// empty sequence.
func Unmarshal(data string) ([]Token, error) {
	if data == "" {
		return make([]Token, 0), nil
	}
	var tokens []Token
	if err := json.Unmarshal([]byte(data), &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}
