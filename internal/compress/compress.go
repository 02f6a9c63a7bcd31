package compress

import "strings"

// Compress encodes and decodes opaque payloads, used for compressed TM
// exchange files.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ByExtension picks the codec matching a file name: .gz, .lz4 and .br are
// compressed, anything else passes through.
func ByExtension(name string) Compress {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return NewGZip()
	case strings.HasSuffix(name, ".lz4"):
		return NewLZ4()
	case strings.HasSuffix(name, ".br"):
		return NewBrotli()
	default:
		return NewNop()
	}
}

// TrimExtension strips a compression suffix so the inner format can be
// inspected, e.g. "x.tmx.gz" -> "x.tmx".
func TrimExtension(name string) string {
	for _, suffix := range []string{".gz", ".lz4", ".br"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
