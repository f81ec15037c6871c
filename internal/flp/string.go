package flp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// decodeString tries, in order: UTF-16LE with BOM, UTF-16LE without BOM
// (alternating-null heuristic), then lossy UTF-8, always stripping
// trailing NULs. Decoding never fails.
func decodeString(payload []byte) string {
	if hasBOM(payload) {
		return decodeUTF16LE(payload[2:])
	}
	if looksLikeUTF16(payload) {
		return decodeUTF16LE(payload)
	}
	return strings.TrimRight(lossyUTF8(payload), "\x00")
}

func hasBOM(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE
}

// looksLikeUTF16 heuristically detects BOM-less UTF-16LE: even length >= 4
// bytes with zero bytes at offsets 1 and 3 (i.e. the first two UTF-16 code
// units both have a zero high byte — ASCII-ish text encoded as UTF-16LE).
func looksLikeUTF16(b []byte) bool {
	return len(b) >= 4 && len(b)%2 == 0 && b[1] == 0 && b[3] == 0
}

func decodeUTF16LE(b []byte) string {
	n := len(b) / 2
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return strings.TrimRight(string(utf16.Decode(units)), "\x00")
}

// lossyUTF8 decodes b as UTF-8, replacing invalid byte sequences with the
// Unicode replacement character rather than failing.
func lossyUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		sb.WriteRune(r)
		i += size
	}
	return sb.String()
}
