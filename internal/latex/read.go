// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadTexFile reads a LaTeX source file, tolerating the encodings found in
// the wild on arXiv. UTF-8 content is used as-is; anything else is decoded as
// Latin-1, which accepts every byte sequence. Any remaining invalid runes are
// dropped rather than failing the read.
func ReadTexFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return decodeTex(data), nil
}

// decodeTex converts raw file bytes to a UTF-8 string, falling back from
// UTF-8 to Latin-1 to a lossy strip of undecodable runes.
func decodeTex(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err == nil {
		return string(decoded)
	}

	return string(toValidUTF8(data))
}

// toValidUTF8 drops bytes that do not form valid UTF-8 sequences.
func toValidUTF8(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			out = append(out, data[:size]...)
		}
		data = data[size:]
	}
	return out
}
