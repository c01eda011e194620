// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// enum.go — string enum converters for integer enum types registered with
// their member names.

package jsonext

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
	"golang.org/x/exp/constraints"
)

// enumMember is one named value of an enum type.
type enumMember struct {
	value int64
	name  string
}

type enumInfo struct {
	unsigned bool
	members  []enumMember // sorted by value
}

var enumRegistry = struct {
	sync.RWMutex
	types map[reflect.Type]*enumInfo
}{types: map[reflect.Type]*enumInfo{}}

// RegisterEnum records the member names of enum type E so string enum
// converters can write and read them. Registering E again replaces its names.
func RegisterEnum[E constraints.Integer](names map[E]string) {
	t := reflect.TypeOf(E(0))
	info := &enumInfo{}
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		info.unsigned = true
	}
	for v, name := range names {
		info.members = append(info.members, enumMember{value: int64(v), name: name})
	}
	sort.Slice(info.members, func(i, j int) bool { return info.members[i].value < info.members[j].value })

	enumRegistry.Lock()
	enumRegistry.types[t] = info
	enumRegistry.Unlock()
}

func lookupEnum(t reflect.Type) (*enumInfo, bool) {
	enumRegistry.RLock()
	defer enumRegistry.RUnlock()
	info, ok := enumRegistry.types[t]
	return info, ok
}

// StringEnumConverter writes registered enum values as their member names.
// Naming converts member names on output and is also accepted on input;
// input names otherwise match case-insensitively. With AllowIntegerValues
// unnamed values are written as numbers and numbers are accepted on input.
type StringEnumConverter struct {
	Naming             NamingPolicy
	AllowIntegerValues bool
}

// NewStringEnumConverter returns a converter that keeps member names as
// registered and accepts integer values.
func NewStringEnumConverter() *StringEnumConverter {
	return &StringEnumConverter{AllowIntegerValues: true}
}

// NewCamelCaseStringEnumConverter returns a converter that writes camelCase
// member names and accepts integer values.
func NewCamelCaseStringEnumConverter() *StringEnumConverter {
	return &StringEnumConverter{Naming: CamelCase, AllowIntegerValues: true}
}

// CanConvert accepts enum types registered with RegisterEnum.
func (c *StringEnumConverter) CanConvert(typ reflect2.Type) bool {
	_, ok := lookupEnum(typ.Type1())
	return ok
}

func (c *StringEnumConverter) CreateCodec(typ reflect2.Type, opts *Options) (ValueCodec, error) {
	info, ok := lookupEnum(typ.Type1())
	if !ok {
		return nil, configError(typ.String(), "enum type is not registered", nil)
	}
	ec := &enumCodec{
		typ:       typ.Type1(),
		info:      info,
		allowInts: c.AllowIntegerValues,
		enc:       opts.Encoder,
		names:     make(map[int64]string, len(info.members)),
		values:    make(map[string]int64, len(info.members)),
	}
	for _, m := range info.members {
		out := m.name
		if c.Naming != nil {
			out = c.Naming.ConvertName(m.name)
		}
		ec.names[m.value] = out
		ec.values[out] = m.value
	}
	return ec, nil
}

type enumCodec struct {
	typ       reflect.Type
	info      *enumInfo
	allowInts bool
	enc       TextEncoder
	names     map[int64]string // value to output name
	values    map[string]int64 // output name to value
}

func (c *enumCodec) get(ptr unsafe.Pointer) int64 {
	v := reflect.NewAt(c.typ, ptr).Elem()
	if c.info.unsigned {
		return int64(v.Uint())
	}
	return v.Int()
}

func (c *enumCodec) set(ptr unsafe.Pointer, n int64) {
	v := reflect.NewAt(c.typ, ptr).Elem()
	if c.info.unsigned {
		v.SetUint(uint64(n))
		return
	}
	v.SetInt(n)
}

func (c *enumCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return c.get(ptr) == 0
}

func (c *enumCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	n := c.get(ptr)
	if name, ok := c.names[n]; ok {
		writeString(stream, c.enc, name)
		return
	}
	if !c.allowInts {
		failEncode(stream, mismatchf(c.typ.String(), "value %d has no name", n))
		return
	}
	if c.info.unsigned {
		stream.WriteUint64(uint64(n))
		return
	}
	stream.WriteInt64(n)
}

func (c *enumCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch next := iter.WhatIsNext(); next {
	case jsoniter.StringValue:
		s := iter.ReadString()
		if n, ok := c.lookup(s); ok {
			c.set(ptr, n)
			return
		}
		failDecode(iter, mismatchf(c.typ.String(), "unknown member %q", s))
	case jsoniter.NumberValue:
		if !c.allowInts {
			iter.Skip()
			failDecode(iter, mismatchf(c.typ.String(), "integer values are not allowed"))
			return
		}
		if c.info.unsigned {
			c.set(ptr, int64(iter.ReadUint64()))
		} else {
			c.set(ptr, iter.ReadInt64())
		}
	default:
		iter.Skip()
		failDecode(iter, mismatchf(c.typ.String(), "expected string, found %s", valueTypeName(next)))
	}
}

func (c *enumCodec) lookup(s string) (int64, bool) {
	if n, ok := c.values[s]; ok {
		return n, true
	}
	for _, m := range c.info.members {
		if strings.EqualFold(m.name, s) {
			return m.value, true
		}
	}
	return 0, false
}
