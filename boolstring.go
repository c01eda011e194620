package jsonext

import (
	"reflect"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// BoolAsStringConverter reads booleans written either as JSON booleans or
// as the strings "true" and "false" (any case). It always writes a JSON
// boolean.
var BoolAsStringConverter Converter = boolAsStringConverter{}

type boolAsStringConverter struct{}

func (boolAsStringConverter) CanConvert(typ reflect2.Type) bool {
	return typ.Kind() == reflect.Bool
}

func (c boolAsStringConverter) CreateCodec(typ reflect2.Type, _ *Options) (ValueCodec, error) {
	if !c.CanConvert(typ) {
		return nil, configError(typ.String(), "boolean conversion needs a bool type", nil)
	}
	return boolAsStringCodec{typ: typ.String()}, nil
}

type boolAsStringCodec struct {
	typ string
}

func (boolAsStringCodec) IsEmpty(ptr unsafe.Pointer) bool { return !*(*bool)(ptr) }

func (boolAsStringCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteBool(*(*bool)(ptr))
}

func (c boolAsStringCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch next := iter.WhatIsNext(); next {
	case jsoniter.BoolValue:
		*(*bool)(ptr) = iter.ReadBool()
	case jsoniter.StringValue:
		s := strings.TrimSpace(iter.ReadString())
		switch {
		case strings.EqualFold(s, "true"):
			*(*bool)(ptr) = true
		case strings.EqualFold(s, "false"):
			*(*bool)(ptr) = false
		default:
			failDecode(iter, mismatchf(c.typ, "%q is not a boolean", s))
		}
	default:
		iter.Skip()
		failDecode(iter, mismatchf(c.typ, "expected boolean or string, found %s", valueTypeName(next)))
	}
}
