// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go — sentinel errors and the typed errors returned by converters,
// covering converter setup, stream/type mismatches, and encode-only codecs.

// Package jsonext adds converter factories and selective string escaping to
// the json-iterator codec: collection item converters, derived type
// serialization, string enums, booleans read from strings, and a
// Newtonsoft-compatible escaper that leaves emoji untouched.
package jsonext

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Converter errors
var (
	ErrConfiguration = errors.New("jsonext: invalid converter configuration")
	ErrTypeMismatch  = errors.New("jsonext: value does not match declared type")
	ErrNotSupported  = errors.New("jsonext: operation not supported")
)

// ConfigurationError reports a converter that cannot be built for a type,
// such as a container without exactly one element type or a converter tag
// that cannot be instantiated.
type ConfigurationError struct {
	Type   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "jsonext: cannot convert " + e.Type + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// TypeMismatchError reports stream contents that do not fit the declared
// type. Index is the offending collection element, or -1.
type TypeMismatchError struct {
	Type  string
	Index int
	Err   error
}

func (e *TypeMismatchError) Error() string {
	msg := "jsonext: cannot decode " + e.Type
	if e.Index >= 0 {
		msg += " element " + strconv.Itoa(e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// Is matches ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// NotSupportedError is returned by converters that only work in one
// direction.
type NotSupportedError struct {
	Converter string
	Op        string
}

func (e *NotSupportedError) Error() string {
	return "jsonext: " + e.Converter + " does not support " + e.Op
}

// Is matches ErrNotSupported.
func (e *NotSupportedError) Is(target error) bool { return target == ErrNotSupported }

func configError(typ, reason string, cause error) error {
	return &ConfigurationError{Type: typ, Reason: reason, Err: cause}
}

func mismatch(typ string, index int, cause error) error {
	return &TypeMismatchError{Type: typ, Index: index, Err: cause}
}

func mismatchf(typ string, format string, args ...any) error {
	return &TypeMismatchError{Type: typ, Index: -1, Err: errors.Newf(format, args...)}
}

// isConverterError reports whether err already carries one of the package's
// typed errors, in which case it is propagated unchanged.
func isConverterError(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrNotSupported)
}
