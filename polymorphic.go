// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// polymorphic.go — encode-only converter that serializes values by their
// runtime type, so an interface-typed field writes every field of the
// concrete type it holds.

package jsonext

import (
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// DerivedTypesConverter writes a value through the serializer's generic
// entry point using its runtime type instead of its declared type. A
// collection is written element by element, each by its own runtime type.
// Decoding is not supported.
//
// It accepts interface types and slices or arrays of interfaces. Bind it to
// a field with Options.BindField, or register it to cover all of them.
var DerivedTypesConverter Converter = derivedTypesConverter{}

const derivedTypesConverterName = "DerivedTypesConverter"

type derivedTypesConverter struct{}

func (derivedTypesConverter) CanConvert(typ reflect2.Type) bool {
	switch typ.Kind() {
	case reflect.Interface:
		return true
	case reflect.Slice, reflect.Array:
		return typ.Type1().Elem().Kind() == reflect.Interface
	}
	return false
}

func (c derivedTypesConverter) CreateCodec(typ reflect2.Type, _ *Options) (ValueCodec, error) {
	if !c.CanConvert(typ) {
		return nil, configError(typ.String(), "derived type serialization needs an interface or a collection of interfaces", nil)
	}
	return &derivedTypesCodec{typ: typ.Type1()}, nil
}

type derivedTypesCodec struct {
	typ reflect.Type
}

func (c *derivedTypesCodec) IsEmpty(ptr unsafe.Pointer) bool {
	v := reflect.NewAt(c.typ, ptr).Elem()
	switch c.typ.Kind() {
	case reflect.Interface:
		return v.IsNil()
	}
	return v.Len() == 0
}

func (c *derivedTypesCodec) Decode(_ unsafe.Pointer, iter *jsoniter.Iterator) {
	iter.Skip()
	failDecode(iter, &NotSupportedError{Converter: derivedTypesConverterName, Op: "decode"})
}

func (c *derivedTypesCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := reflect.NewAt(c.typ, ptr).Elem()
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			stream.WriteNil()
			return
		}
		v = v.Elem()
	}
	if isSequence(v) {
		writeEach(stream, v)
		return
	}
	stream.WriteVal(v.Interface())
}

// isSequence reports whether v is written as a JSON array of its elements.
// Byte slices keep their base64 form.
func isSequence(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

func writeEach(stream *jsoniter.Stream, v reflect.Value) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		stream.WriteNil()
		return
	}
	if v.Len() == 0 {
		stream.WriteEmptyArray()
		return
	}
	stream.WriteArrayStart()
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteVal(v.Index(i).Interface())
	}
	stream.WriteArrayEnd()
}
