package jsonext_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramjotsingh/jsonext"
)

type boolField struct {
	Enabled bool `json:"enabled"`
}

func TestBoolAsString(t *testing.T) {
	s, err := jsonext.NewSerializer(&jsonext.Options{Converters: []jsonext.Converter{jsonext.BoolAsStringConverter}})
	require.NoError(t, err)

	cases := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{`{"enabled":true}`, true, false},
		{`{"enabled":false}`, false, false},
		{`{"enabled":"true"}`, true, false},
		{`{"enabled":"TRUE"}`, true, false},
		{`{"enabled":"False"}`, false, false},
		{`{"enabled":"yes"}`, false, true},
		{`{"enabled":1}`, false, true},
		{`{"enabled":null}`, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var got boolField
			err := s.UnmarshalFromString(tc.in, &got)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, jsonext.ErrTypeMismatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Enabled)
		})
	}

	out, err := s.MarshalToString(boolField{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, `{"enabled":true}`, out)
}

func TestBoolAsString_BindRejectsNonBool(t *testing.T) {
	type holder struct {
		Count int
	}
	opts := &jsonext.Options{}
	opts.BindField(&holder{}, "Count", jsonext.BoolAsStringConverter)
	_, err := opts.Freeze()
	assert.True(t, errors.Is(err, jsonext.ErrConfiguration))
}
