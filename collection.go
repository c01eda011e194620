// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// collection.go — converter factory that reuses a single-element converter for
// every member of a slice or array.

package jsonext

import (
	"io"
	"reflect"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"

	"github.com/ramjotsingh/jsonext/internal/clock"
)

const collectionConverterName = "collection"

// CollectionItemConverter returns a Converter for slices and arrays that
// encodes and decodes each element with a fresh converter from tag. Every
// element call runs under a scoped serializer whose only converter is that
// element converter, so it governs each element regardless of any other
// converters registered on the caller's Options.
//
// A nil slice is written as null and null reads back as a nil slice; []
// reads back as an empty, non-nil slice.
func CollectionItemConverter(tag ConverterTag) Converter {
	return &collectionItemConverter{tag: tag}
}

type collectionItemConverter struct {
	tag ConverterTag
}

// CanConvert accepts containers with exactly one element type. Maps (key and
// value types) and strings are rejected.
func (c *collectionItemConverter) CanConvert(typ reflect2.Type) bool {
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func (c *collectionItemConverter) CreateCodec(typ reflect2.Type, opts *Options) (ValueCodec, error) {
	if !c.CanConvert(typ) {
		return nil, configError(typ.String(), "collection item conversion needs a container with exactly one element type", nil)
	}
	// instantiating once here surfaces a broken tag at setup time
	if _, err := c.tag.instantiate(typ.String()); err != nil {
		return nil, err
	}
	t := typ.Type1()
	return &collectionCodec{
		typ:   t,
		elem:  t.Elem(),
		slice: t.Kind() == reflect.Slice,
		tag:   c.tag,
		opts:  opts,
	}, nil
}

// collectionCodec is bound to one container type and element converter.
type collectionCodec struct {
	typ   reflect.Type
	elem  reflect.Type
	slice bool
	tag   ConverterTag
	opts  *Options
}

// scope clones the serializer options, replaces every converter with one
// new element converter and freezes the result. The clone lives for a single
// Encode or Decode call.
func (c *collectionCodec) scope() (*Serializer, error) {
	conv, err := c.tag.instantiate(c.elem.String())
	if err != nil {
		return nil, err
	}
	scoped := c.opts.Clone()
	scoped.ClearConverters()
	scoped.AddConverter(conv)
	s, err := scoped.Freeze()
	if err != nil {
		return nil, err
	}
	c.opts.Metrics.RecordScope(collectionConverterName)
	c.opts.Logger.Debug("jsonext: scoped serializer built", "collection", c.typ.String(), "converter", typeName(conv))
	return s, nil
}

func (c *collectionCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.NewAt(c.typ, ptr).Elem().Len() == 0
}

func (c *collectionCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	start := c.opts.Clock.Now()
	defer func() { c.done("decode", start, iter.Error) }()

	rv := reflect.NewAt(c.typ, ptr).Elem()
	if iter.ReadNil() {
		rv.Set(reflect.Zero(c.typ))
		return
	}
	if next := iter.WhatIsNext(); next != jsoniter.ArrayValue {
		failDecode(iter, mismatchf(c.typ.String(), "expected array, found %s", valueTypeName(next)))
		return
	}
	scoped, err := c.scope()
	if err != nil {
		failDecode(iter, err)
		return
	}

	out := rv
	if c.slice {
		out = reflect.MakeSlice(c.typ, 0, 0)
	} else {
		rv.Set(reflect.Zero(c.typ))
	}
	index := 0
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		raw := it.SkipAndReturnBytes()
		if it.Error != nil && it.Error != io.EOF {
			return false
		}
		if !c.slice && index >= out.Len() {
			failDecode(it, mismatch(c.typ.String(), index, errors.Newf("array holds %d elements", out.Len())))
			return false
		}
		elem := reflect.New(c.elem)
		if err := scoped.unmarshal(raw, elem.Interface()); err != nil {
			failDecode(it, c.decodeError(index, err))
			return false
		}
		if c.slice {
			out = reflect.Append(out, elem.Elem())
		} else {
			out.Index(index).Set(elem.Elem())
		}
		c.opts.Metrics.RecordElement(collectionConverterName, "decode")
		index++
		return true
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return
	}
	if c.slice {
		rv.Set(out)
	}
}

func (c *collectionCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	start := c.opts.Clock.Now()
	defer func() { c.done("encode", start, stream.Error) }()

	rv := reflect.NewAt(c.typ, ptr).Elem()
	if c.slice && rv.IsNil() {
		stream.WriteNil()
		return
	}
	scoped, err := c.scope()
	if err != nil {
		failEncode(stream, err)
		return
	}
	if rv.Len() == 0 {
		stream.WriteEmptyArray()
		return
	}
	stream.WriteArrayStart()
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			stream.WriteMore()
		}
		// boxing makes the scoped serializer dispatch on the runtime type
		b, err := scoped.marshal(rv.Index(i).Interface())
		if err != nil {
			failEncode(stream, c.encodeError(i, err))
			return
		}
		stream.SetBuffer(append(stream.Buffer(), b...))
		c.opts.Metrics.RecordElement(collectionConverterName, "encode")
	}
	stream.WriteArrayEnd()
}

func (c *collectionCodec) decodeError(index int, err error) error {
	if isConverterError(err) {
		return err
	}
	return mismatch(c.typ.String(), index, err)
}

func (c *collectionCodec) encodeError(index int, err error) error {
	if isConverterError(err) {
		return err
	}
	return errors.Wrapf(err, "jsonext: cannot encode %s element %d", c.typ, index)
}

func (c *collectionCodec) done(op string, start time.Time, err error) {
	c.opts.Metrics.RecordLatency(collectionConverterName, op, clock.Since(c.opts.Clock, start))
	if err != nil && err != io.EOF {
		c.opts.Metrics.RecordError(collectionConverterName, op)
		c.opts.Logger.Warn("jsonext: collection "+op+" failed", "collection", c.typ.String(), "error", err)
	}
}

func valueTypeName(v jsoniter.ValueType) string {
	switch v {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "bool"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	}
	return "invalid input"
}
