// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// escape.go — per-scalar escaping decisions for JSON string output and the
// scanners that locate the first scalar needing an escape.

// Package escape decides which Unicode scalars must be escaped when a
// string is written as JSON text, and renders the escaped form.
package escape

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// None is returned by the scanners when no scalar needs escaping.
const None = -1

// Encoder decides, one scalar at a time, what must be escaped.
type Encoder interface {
	// WillEncode reports whether r must be written in escaped form.
	WillEncode(r rune) bool
	// TryEncodeScalar writes the escaped form of r into dst. It reports
	// false, writing nothing, when dst is too small.
	TryEncodeScalar(r rune, dst []byte) (n int, ok bool)
	// MaxOutputCharactersPerInputCharacter bounds the output produced for
	// a single UTF-16 code unit of input.
	MaxOutputCharactersPerInputCharacter() int
}

// Relaxed escapes only what JSON itself requires plus characters that are
// invisible or unassigned. HTML-sensitive characters are left alone, so its
// output must not be embedded in HTML or script blocks.
var Relaxed Encoder = relaxed{}

type relaxed struct{}

func (relaxed) WillEncode(r rune) bool {
	switch {
	case r == '"' || r == '\\':
		return true
	case r < 0x20 || r > 0xffff:
		return true
	case utf16.IsSurrogate(r):
		return true
	}
	return !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Zs)
}

func (relaxed) TryEncodeScalar(r rune, dst []byte) (int, bool) {
	if short := shortEscape(r); short != 0 {
		if len(dst) < 2 {
			return 0, false
		}
		dst[0], dst[1] = '\\', short
		return 2, true
	}
	if r < 0 || r > unicode.MaxRune || utf16.IsSurrogate(r) {
		r = unicode.ReplacementChar
	}
	if r <= 0xffff {
		if len(dst) < 6 {
			return 0, false
		}
		putUnicode(dst, r)
		return 6, true
	}
	if len(dst) < 12 {
		return 0, false
	}
	hi, lo := utf16.EncodeRune(r)
	putUnicode(dst, hi)
	putUnicode(dst[6:], lo)
	return 12, true
}

func (relaxed) MaxOutputCharactersPerInputCharacter() int { return 6 }

func shortEscape(r rune) byte {
	switch r {
	case '"':
		return '"'
	case '\\':
		return '\\'
	case '\b':
		return 'b'
	case '\f':
		return 'f'
	case '\n':
		return 'n'
	case '\r':
		return 'r'
	case '\t':
		return 't'
	}
	return 0
}

const hexDigits = "0123456789ABCDEF"

func putUnicode(dst []byte, r rune) {
	dst[0], dst[1] = '\\', 'u'
	dst[2] = hexDigits[r>>12&0xf]
	dst[3] = hexDigits[r>>8&0xf]
	dst[4] = hexDigits[r>>4&0xf]
	dst[5] = hexDigits[r&0xf]
}

// FindFirstEscapeIndex returns the byte offset of the first scalar in s that
// enc would escape, or None. Invalid or truncated UTF-8 stops the scan and
// its offset is returned.
func FindFirstEscapeIndex(enc Encoder, s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		if enc.WillEncode(r) {
			return i
		}
		i += size
	}
	return None
}

// FindFirstEscapeIndexUTF16 is FindFirstEscapeIndex over UTF-16 code units.
// Surrogate pairs are consumed as one scalar; a lone surrogate stops the scan
// at its position.
func FindFirstEscapeIndexUTF16(enc Encoder, units []uint16) int {
	for i := 0; i < len(units); {
		r, n := decodeUTF16(units[i:])
		if n == 0 || enc.WillEncode(r) {
			return i
		}
		i += n
	}
	return None
}

func decodeUTF16(units []uint16) (rune, int) {
	c := rune(units[0])
	if !utf16.IsSurrogate(c) {
		return c, 1
	}
	if c < 0xdc00 && len(units) > 1 {
		if r := utf16.DecodeRune(c, rune(units[1])); r != unicode.ReplacementChar {
			return r, 2
		}
	}
	return 0, 0
}

// AppendQuoted appends s to dst as a quoted JSON string, escaping what enc
// asks for. Invalid UTF-8 is written as an escaped U+FFFD.
func AppendQuoted(enc Encoder, dst []byte, s string) []byte {
	dst = append(dst, '"')
	scratch := make([]byte, 2*enc.MaxOutputCharactersPerInputCharacter())
	for {
		i := FindFirstEscapeIndex(enc, s)
		if i == None {
			dst = append(dst, s...)
			break
		}
		dst = append(dst, s[:i]...)
		r, size := utf8.DecodeRuneInString(s[i:])
		if n, ok := enc.TryEncodeScalar(r, scratch); ok {
			dst = append(dst, scratch[:n]...)
		} else {
			dst = utf8.AppendRune(dst, r)
		}
		s = s[i+size:]
	}
	return append(dst, '"')
}

// Quote returns s as a quoted JSON string escaped by enc.
func Quote(enc Encoder, s string) string {
	return string(AppendQuoted(enc, make([]byte, 0, len(s)+2), s))
}
