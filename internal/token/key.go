package token

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagsSignature concatenates the literal markup of the tag tokens in order.
// Two sequences with the same signature carry the same tag skeleton.
func TagsSignature(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == KindTag {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// MatchKey derives the normalized comparison text of a token sequence: tag
// tokens are dropped, whitespace runs collapse to single spaces, the result
// is trimmed and case-folded per the given language. Matching must be robust
// to markup that varies between file formats but not to wording, so only
// text tokens contribute.
func MatchKey(tokens []Token, lang string) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == KindText {
			b.WriteString(t.Content)
			b.WriteString(" ")
		}
	}

	folded := cases.Lower(language.Make(lang)).String(b.String())
	return strings.Join(strings.Fields(folded), " ")
}

// Hash digests a match key into the 128-bit hex string used for exact-match
// lookup. Not a security primitive, collisions are negligible at corpus scale.
func Hash(matchKey string) string {
	sum := md5.Sum([]byte(matchKey))
	return hex.EncodeToString(sum[:])
}
