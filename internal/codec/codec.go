// Package codec provides the encode/decode contract shared by the plain JSON
// codecs and frozen jsonext serializers.
package codec

import "github.com/cockroachdb/errors"

// Codec encodes and decodes values.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// ErrUnknownCodec is returned by Lookup for names with no codec.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Lookup returns the built-in codec registered under name.
func Lookup(name string) (Codec, error) {
	switch name {
	case JSON{}.Name():
		return JSON{}, nil
	case GoJSON{}.Name():
		return GoJSON{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownCodec, "%q", name)
}
