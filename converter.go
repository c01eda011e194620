// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// converter.go — converter factories and the json-iterator extensions that
// install them, by type or by struct field, into a frozen Serializer.

package jsonext

import (
	"io"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// ValueCodec encodes and decodes values of one Go type.
type ValueCodec interface {
	jsoniter.ValEncoder
	jsoniter.ValDecoder
}

// Converter builds ValueCodecs for the types it accepts.
type Converter interface {
	// CanConvert reports whether the converter handles typ.
	CanConvert(typ reflect2.Type) bool
	// CreateCodec builds the codec for typ under opts. opts belongs to the
	// serializer being frozen and must not be modified.
	CreateCodec(typ reflect2.Type, opts *Options) (ValueCodec, error)
}

// ConverterTag constructs a fresh Converter. It selects which converter a
// factory such as CollectionItemConverter installs for each element.
type ConverterTag func() (Converter, error)

// TagOf returns a ConverterTag that yields c. Converters in this package are
// stateless, so sharing one instance is equivalent to constructing anew.
func TagOf(c Converter) ConverterTag {
	return func() (Converter, error) { return c, nil }
}

func (t ConverterTag) instantiate(typ string) (Converter, error) {
	if t == nil {
		return nil, configError(typ, "converter tag is nil", nil)
	}
	c, err := t()
	if err != nil {
		return nil, configError(typ, "converter tag cannot be instantiated", err)
	}
	if c == nil {
		return nil, configError(typ, "converter tag returned no converter", nil)
	}
	return c, nil
}

// typeName reports a converter's concrete type for logs and errors.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// ────────────────────────────────────────────────────────────────────────────
// Failure propagation
// ────────────────────────────────────────────────────────────────────────────

// failure is carried in Iterator/Stream.Attachment. json-iterator rewrites
// errors raised inside struct fields into plain strings, so the first typed
// error is kept here and handed back by Serializer.
type failure struct {
	err error
}

func (f *failure) record(err error) {
	if f != nil && f.err == nil {
		f.err = err
	}
}

// result picks the typed error when one was recorded.
func (f *failure) result(hostErr error) error {
	if hostErr == nil || hostErr == io.EOF {
		return nil
	}
	if f.err != nil {
		return f.err
	}
	return hostErr
}

func failDecode(iter *jsoniter.Iterator, err error) {
	if iter.Error != nil && iter.Error != io.EOF {
		return
	}
	iter.Error = err
	if f, ok := iter.Attachment.(*failure); ok {
		f.record(err)
	}
}

func failEncode(stream *jsoniter.Stream, err error) {
	if stream.Error != nil {
		return
	}
	stream.Error = err
	if f, ok := stream.Attachment.(*failure); ok {
		f.record(err)
	}
}

// errorCodec stands in for a codec the converter could not build and raises
// the build error on first use.
type errorCodec struct {
	err error
}

func (c errorCodec) IsEmpty(unsafe.Pointer) bool { return false }

func (c errorCodec) Encode(_ unsafe.Pointer, stream *jsoniter.Stream) { failEncode(stream, c.err) }

func (c errorCodec) Decode(_ unsafe.Pointer, iter *jsoniter.Iterator) {
	iter.Skip()
	failDecode(iter, c.err)
}

// ────────────────────────────────────────────────────────────────────────────
// Extensions
// ────────────────────────────────────────────────────────────────────────────

// converterExtension consults Options.Converters, in order, for every type
// the serializer meets.
type converterExtension struct {
	jsoniter.DummyExtension
	opts *Options
}

func (e *converterExtension) codecFor(typ reflect2.Type) ValueCodec {
	for _, c := range e.opts.Converters {
		if !c.CanConvert(typ) {
			continue
		}
		vc, err := c.CreateCodec(typ, e.opts)
		if err != nil {
			e.opts.Logger.Warn("jsonext: converter rejected type", "converter", typeName(c), "type", typ.String(), "error", err)
			return errorCodec{err: err}
		}
		return vc
	}
	return nil
}

func (e *converterExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if vc := e.codecFor(typ); vc != nil {
		return vc
	}
	return nil
}

func (e *converterExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if vc := e.codecFor(typ); vc != nil {
		return vc
	}
	return nil
}

// fieldBinding attaches a converter to one struct field.
type fieldBinding struct {
	owner reflect.Type
	field string
	conv  Converter
}

// bindingExtension swaps the codecs of bound struct fields. Bindings were
// checked when the serializer was frozen.
type bindingExtension struct {
	jsoniter.DummyExtension
	opts *Options
}

func (e *bindingExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, fb := range e.opts.fields {
		if desc.Type.Type1() != fb.owner {
			continue
		}
		binding := desc.GetField(fb.field)
		if binding == nil {
			continue
		}
		vc, err := fb.conv.CreateCodec(binding.Field.Type(), e.opts)
		if err != nil {
			vc = errorCodec{err: err}
		}
		binding.Encoder = vc
		binding.Decoder = vc
	}
}

// resolve validates a binding against its struct and re-anchors promoted
// fields on the embedded struct that declares them.
func (fb fieldBinding) resolve(opts *Options) (fieldBinding, error) {
	if fb.owner == nil || fb.owner.Kind() != reflect.Struct {
		return fb, configError(typeString(fb.owner), "field bindings need a struct type", nil)
	}
	if fb.conv == nil {
		return fb, configError(fb.owner.String()+"."+fb.field, "no converter bound", nil)
	}
	sf, ok := fb.owner.FieldByName(fb.field)
	if !ok {
		return fb, configError(fb.owner.String(), "no field named "+fb.field, nil)
	}
	if len(sf.Index) > 1 {
		declaring := fb.owner.FieldByIndex(sf.Index[:len(sf.Index)-1]).Type
		if declaring.Kind() == reflect.Ptr {
			declaring = declaring.Elem()
		}
		fb.owner = declaring
	}
	ft := reflect2.Type2(sf.Type)
	if !fb.conv.CanConvert(ft) {
		return fb, configError(sf.Type.String(), typeName(fb.conv)+" cannot convert field "+fb.field, nil)
	}
	if _, err := fb.conv.CreateCodec(ft, opts); err != nil {
		return fb, err
	}
	return fb, nil
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
