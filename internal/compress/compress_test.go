package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByExtension_RoundTrip(t *testing.T) {
	payload := []byte("<tmx version=\"1.4\"><body></body></tmx>")

	names := []string{
		"memories.tmx",
		"memories.tmx.gz",
		"memories.tmx.lz4",
		"memories.tmx.br",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			codec := ByExtension(name)

			encoded, err := codec.Encode(payload)
			assert.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			assert.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestByExtension_NopPassesThrough(t *testing.T) {
	payload := []byte("plain")

	encoded, err := ByExtension("memories.tmx").Encode(payload)
	assert.NoError(t, err)
	assert.Equal(t, payload, encoded)
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "x.tmx", TrimExtension("x.tmx.gz"))
	assert.Equal(t, "x.tmx", TrimExtension("x.tmx.lz4"))
	assert.Equal(t, "x.tmx", TrimExtension("x.tmx.br"))
	assert.Equal(t, "x.tmx", TrimExtension("x.tmx"))
}
