// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// json.go — plain JSON codecs: json-iterator in standard-library mode and
// goccy/go-json, used as a reference decoder for escaped output.

package codec

import (
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

// JSON is the default codec using json-iterator configured to match
// encoding/json.
type JSON struct{}

// Marshal serializes v to JSON bytes.
func (JSON) Marshal(v any) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
}

// Unmarshal deserializes JSON bytes into v.
func (JSON) Unmarshal(data []byte, v any) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, v)
}

// Name returns "json".
func (JSON) Name() string { return "json" }

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
type GoJSON struct{}

// Marshal serializes v to JSON bytes.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal deserializes JSON bytes into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }

// Valid reports whether data is a single well-formed JSON value.
func (GoJSON) Valid(data []byte) bool { return gojson.Valid(data) }

// Default is the default codec instance.
var Default Codec = JSON{}
