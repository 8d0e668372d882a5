// Package textenc recovers text from byte buffers whose encoding is unknown.
//
// The report containers this project reads mix UTF-8, UTF-16 little-endian
// and Latin-1 text across their internal entries with no declaration of which
// is which. Decode tries a fixed chain of encodings and reports which one
// succeeded, so callers can log lossy recoveries. The chain ends in Latin-1,
// which accepts every byte value, so decoding never fails outright.
package textenc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by Decode and DecodeUTF16.
const (
	EncUTF8    = "utf-8"
	EncUTF16LE = "utf-16le"
	EncLatin1  = "latin-1"
)

// Decode converts raw bytes to text, trying UTF-8, then UTF-16
// little-endian, then Latin-1, and returns the decoded string together
// with the name of the encoding that was used.
//
// Success criteria per step:
//   - UTF-8 is used only when the buffer is valid UTF-8.
//   - UTF-16LE requires an even byte count; malformed surrogate pairs are
//     replaced with U+FFFD rather than failing the decode.
//   - Latin-1 maps every byte to a code point and is the terminal case.
func Decode(b []byte) (text, encoding string) {
	if utf8.Valid(b) {
		return string(b), EncUTF8
	}
	if len(b)%2 == 0 {
		if out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b); err == nil {
			return string(out), EncUTF16LE
		}
	}
	return decodeLatin1(b), EncLatin1
}

// DecodeUTF16 converts raw bytes assuming UTF-16 little-endian, falling
// back to Latin-1 when the buffer cannot be UTF-16 (odd byte count).
//
// Document-level container entries are historically double-byte encoded;
// running them through the UTF-8 step of Decode would accept them as
// NUL-riddled ASCII and hide their content from the pattern scanners, so
// this path skips UTF-8 entirely.
func DecodeUTF16(b []byte) (text, encoding string) {
	if len(b)%2 == 0 {
		if out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b); err == nil {
			return string(out), EncUTF16LE
		}
	}
	return decodeLatin1(b), EncLatin1
}

func decodeLatin1(b []byte) string {
	// ISO 8859-1 decoding cannot fail: every byte is a valid code point.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}
