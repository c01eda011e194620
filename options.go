// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// options.go — serializer options, their clone/clear/add operations, and the
// frozen Serializer built from them.

package jsonext

import (
	"reflect"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/ramjotsingh/jsonext/internal/clock"
	"github.com/ramjotsingh/jsonext/internal/codec"
	"github.com/ramjotsingh/jsonext/internal/metrics"
)

// Re-export types so callers only import this package.
type MetricsRecorder = metrics.Recorder
type Clock = clock.Clock
type Codec = codec.Codec

// ────────────────────────────────────────────────────────────────────────────
// Options
// ────────────────────────────────────────────────────────────────────────────

// Options configures a Serializer. The zero value is usable.
type Options struct {
	// Converters are consulted in order for every type the serializer
	// meets; the first whose CanConvert accepts the type wins.
	Converters []Converter

	// Naming renames untagged struct fields. Nil keeps Go field names.
	Naming NamingPolicy

	// Encoder escapes every string the serializer writes. Nil leaves string
	// escaping to json-iterator, which honours EscapeHTML. When set it takes
	// precedence and EscapeHTML is ignored.
	Encoder TextEncoder

	// Host codec behaviour.
	EscapeHTML            bool
	SortMapKeys           bool
	UseNumber             bool
	DisallowUnknownFields bool
	CaseSensitive         bool
	TagKey                string
	IndentionStep         int

	// Optional overrideable components
	Logger  Logger
	Metrics MetricsRecorder
	Clock   Clock

	fields []fieldBinding
}

func (o *Options) defaults() {
	if o.TagKey == "" {
		o.TagKey = "json"
	}
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Noop{}
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
}

// Clone returns a copy of o that shares no converter or binding slices with
// it.
func (o *Options) Clone() *Options {
	c := *o
	c.Converters = append([]Converter(nil), o.Converters...)
	c.fields = append([]fieldBinding(nil), o.fields...)
	return &c
}

// ClearConverters removes every registered converter. Field bindings stay.
func (o *Options) ClearConverters() {
	o.Converters = nil
}

// AddConverter registers c after the existing converters.
func (o *Options) AddConverter(c Converter) {
	o.Converters = append(o.Converters, c)
}

// BindField attaches c to one field of the struct type of sample (a struct
// value or a pointer to one), the way a field attribute would. The binding
// is validated by Freeze.
func (o *Options) BindField(sample any, field string, c Converter) {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	o.fields = append(o.fields, fieldBinding{owner: t, field: field, conv: c})
}

// Freeze snapshots o into an immutable Serializer. Later changes to o do not
// affect it. Invalid field bindings are reported as ConfigurationError.
func (o *Options) Freeze() (*Serializer, error) {
	snap := o.Clone()
	snap.defaults()
	for i, fb := range snap.fields {
		resolved, err := fb.resolve(snap)
		if err != nil {
			return nil, err
		}
		snap.fields[i] = resolved
	}

	api := jsoniter.Config{
		IndentionStep:         snap.IndentionStep,
		EscapeHTML:            snap.EscapeHTML && snap.Encoder == nil,
		SortMapKeys:           snap.SortMapKeys,
		UseNumber:             snap.UseNumber,
		DisallowUnknownFields: snap.DisallowUnknownFields,
		CaseSensitive:         snap.CaseSensitive,
		TagKey:                snap.TagKey,
	}.Froze()
	api.RegisterExtension(&bindingExtension{opts: snap})
	api.RegisterExtension(&converterExtension{opts: snap})
	if snap.Naming != nil {
		api.RegisterExtension(&namingExtension{policy: snap.Naming, tagKey: snap.TagKey})
	}
	if snap.Encoder != nil {
		api.RegisterExtension(&escapingExtension{enc: snap.Encoder})
	}
	return &Serializer{api: api, opts: snap}, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Serializer
// ────────────────────────────────────────────────────────────────────────────

// Serializer encodes and decodes values under a frozen set of Options. It is
// safe for concurrent use.
type Serializer struct {
	api  jsoniter.API
	opts *Options
}

var _ Codec = (*Serializer)(nil)

// NewSerializer freezes opts. A nil opts yields the default configuration.
func NewSerializer(opts *Options) (*Serializer, error) {
	if opts == nil {
		opts = &Options{}
	}
	return opts.Freeze()
}

// Marshal encodes v. Typed converter errors raised anywhere inside v are
// returned as is.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	b, err := s.marshal(v)
	if err != nil && !isConverterError(err) {
		return nil, errors.Wrapf(err, "jsonext: cannot encode %T", v)
	}
	return b, err
}

func (s *Serializer) marshal(v any) ([]byte, error) {
	stream := s.api.BorrowStream(nil)
	defer s.api.ReturnStream(stream)
	f := &failure{}
	stream.Attachment = f
	stream.WriteVal(v)
	if stream.Error != nil {
		return nil, f.result(stream.Error)
	}
	buf := stream.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// MarshalToString encodes v as a string.
func (s *Serializer) MarshalToString(v any) (string, error) {
	b, err := s.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Unmarshal decodes data into v, which must be a non-nil pointer. Input
// that does not fit v is reported as a TypeMismatchError.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	err := s.unmarshal(data, v)
	if err != nil && !isConverterError(err) {
		return mismatch(targetName(v), -1, err)
	}
	return err
}

func (s *Serializer) unmarshal(data []byte, v any) error {
	iter := s.api.BorrowIterator(data)
	defer s.api.ReturnIterator(iter)
	f := &failure{}
	iter.Attachment = f
	iter.ReadVal(v)
	if iter.Error == nil {
		iter.WhatIsNext()
		if iter.Error == nil {
			iter.ReportError("Unmarshal", "there are bytes left after unmarshal")
		}
	}
	return f.result(iter.Error)
}

// targetName names the type a decode writes into.
func targetName(v any) string {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return typeString(t)
}

// UnmarshalFromString decodes str into v.
func (s *Serializer) UnmarshalFromString(str string, v any) error {
	return s.Unmarshal([]byte(str), v)
}

// Name returns "jsonext".
func (s *Serializer) Name() string { return "jsonext" }

// Options returns a copy of the options the serializer was frozen with.
func (s *Serializer) Options() *Options { return s.opts.Clone() }
