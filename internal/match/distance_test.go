package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "identical", a: "the quick brown fox", b: "the quick brown fox", want: 0},
		{name: "one substitution", a: "the quick brown fox", b: "the quick red fox", want: 1},
		{name: "one insertion", a: "quick brown fox", b: "the quick brown fox", want: 1},
		{name: "one deletion", a: "the quick brown fox", b: "the brown fox", want: 1},
		{name: "empty against words", a: "", b: "three little words", want: 3},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "disjoint", a: "a b c", b: "x y z", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distance(strings.Fields(tt.a), strings.Fields(tt.b))
			assert.Equal(t, tt.want, got)

			// symmetric
			assert.Equal(t, got, distance(strings.Fields(tt.b), strings.Fields(tt.a)))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      int
	}{
		{name: "identical", query: "hello world", candidate: "hello world", want: 100},
		{name: "both empty", query: "", candidate: "", want: 100},
		{name: "one of four words changed", query: "the quick brown fox", candidate: "the quick red fox", want: 75},
		{name: "half the words", query: "hello world", candidate: "hello", want: 50},
		{name: "nothing shared", query: "a b", candidate: "x y", want: 0},
		{name: "integer floor", query: "a b c", candidate: "a b x", want: 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.query, tt.candidate))
		})
	}
}

// A closer candidate never scores below a farther one against the same query.
func TestScore_Monotonic(t *testing.T) {
	query := "the quick brown fox jumps over the lazy dog"

	closer := Score(query, "the quick brown fox jumps over the lazy cat")
	farther := Score(query, "the quick red cat sleeps under the busy dog")

	assert.Greater(t, closer, farther)
	assert.Greater(t, 100, closer)
}
