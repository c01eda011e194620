// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// escaping.go — text encoders that decide per scalar what a string write must
// escape, including the Newtonsoft-compatible encoder that keeps emoji.

package jsonext

import (
	"encoding"
	"encoding/json"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"

	"github.com/ramjotsingh/jsonext/internal/emoji"
	"github.com/ramjotsingh/jsonext/internal/escape"
)

// TextEncoder decides which scalars a string write escapes and renders them.
type TextEncoder = escape.Encoder

// NoEscape is the value FindFirstEscapeIndex returns for clean input.
const NoEscape = escape.None

// RelaxedEncoder escapes only quotes, backslashes, and control, format,
// separator, private-use, unassigned and non-BMP scalars. HTML-sensitive
// characters pass through unescaped.
var RelaxedEncoder TextEncoder = escape.Relaxed

// NewtonsoftCompatibleEncoder is RelaxedEncoder except that emoji are never
// escaped, which matches the string output of Newtonsoft.Json.
var NewtonsoftCompatibleEncoder TextEncoder = emojiPreserving{base: escape.Relaxed}

// emojiPreserving only suppresses escaping; escaped scalars are rendered by
// the base encoder unchanged.
type emojiPreserving struct {
	base escape.Encoder
}

func (e emojiPreserving) WillEncode(r rune) bool {
	if emoji.Is(r) {
		return false
	}
	return e.base.WillEncode(r)
}

func (e emojiPreserving) TryEncodeScalar(r rune, dst []byte) (int, bool) {
	return e.base.TryEncodeScalar(r, dst)
}

func (e emojiPreserving) MaxOutputCharactersPerInputCharacter() int {
	return e.base.MaxOutputCharactersPerInputCharacter()
}

// FindFirstEscapeIndex returns the byte offset of the first scalar in s that
// enc escapes, or NoEscape. Malformed UTF-8 stops the scan at its offset.
func FindFirstEscapeIndex(enc TextEncoder, s string) int {
	return escape.FindFirstEscapeIndex(enc, s)
}

// FindFirstEscapeIndexUTF16 is FindFirstEscapeIndex over UTF-16 code units.
func FindFirstEscapeIndexUTF16(enc TextEncoder, units []uint16) int {
	return escape.FindFirstEscapeIndexUTF16(enc, units)
}

// QuoteString returns s as a quoted JSON string escaped by enc.
func QuoteString(enc TextEncoder, s string) string {
	return escape.Quote(enc, s)
}

// writeString writes s through enc, or through the host escaper when enc is
// nil.
func writeString(stream *jsoniter.Stream, enc TextEncoder, s string) {
	if enc == nil {
		stream.WriteString(s)
		return
	}
	stream.SetBuffer(escape.AppendQuoted(enc, stream.Buffer(), s))
}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	jsonNumberType    = reflect.TypeOf(json.Number(""))
	iterNumberType    = reflect.TypeOf(jsoniter.Number(""))
)

// escapingExtension installs enc as the encoder of every string kind that
// has no marshaling of its own. Map keys of string kind pass through it too.
type escapingExtension struct {
	jsoniter.DummyExtension
	enc TextEncoder
}

func (e *escapingExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Kind() != reflect.String {
		return nil
	}
	t := typ.Type1()
	if t == jsonNumberType || t == iterNumberType {
		return nil
	}
	pt := reflect.PointerTo(t)
	if t.Implements(jsonMarshalerType) || pt.Implements(jsonMarshalerType) ||
		t.Implements(textMarshalerType) || pt.Implements(textMarshalerType) {
		return nil
	}
	return &stringEncoder{enc: e.enc}
}

type stringEncoder struct {
	enc TextEncoder
}

func (e *stringEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return *(*string)(ptr) == ""
}

func (e *stringEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	writeString(stream, e.enc, *(*string)(ptr))
}
