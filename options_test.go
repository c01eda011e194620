package jsonext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ramjotsingh/jsonext"
	"github.com/ramjotsingh/jsonext/internal/codec"
)

// ── options ──

func TestOptions_CloneIsolation(t *testing.T) {
	opts := &jsonext.Options{}
	opts.AddConverter(jsonext.BoolAsStringConverter)

	clone := opts.Clone()
	clone.ClearConverters()
	clone.AddConverter(jsonext.DerivedTypesConverter)
	clone.AddConverter(jsonext.NewStringEnumConverter())

	require.Len(t, opts.Converters, 1)
	assert.Equal(t, jsonext.BoolAsStringConverter, opts.Converters[0])
	assert.Len(t, clone.Converters, 2)
}

func TestOptions_FreezeSnapshots(t *testing.T) {
	opts := &jsonext.Options{}
	s, err := opts.Freeze()
	require.NoError(t, err)

	opts.AddConverter(jsonext.BoolAsStringConverter)

	var got boolField
	assert.Error(t, s.UnmarshalFromString(`{"enabled":"true"}`, &got))
	assert.Empty(t, s.Options().Converters)

	s2, err := opts.Freeze()
	require.NoError(t, err)
	require.NoError(t, s2.UnmarshalFromString(`{"enabled":"true"}`, &got))
	assert.True(t, got.Enabled)
}

func TestOptions_Defaults(t *testing.T) {
	s, err := jsonext.NewSerializer(nil)
	require.NoError(t, err)
	o := s.Options()
	assert.Equal(t, "json", o.TagKey)
	assert.NotNil(t, o.Logger)
	assert.NotNil(t, o.Metrics)
	assert.NotNil(t, o.Clock)
	assert.Nil(t, o.Encoder)
}

func TestOptions_BindUnknownField(t *testing.T) {
	opts := &jsonext.Options{}
	opts.BindField(enumHolder{}, "Missing", jsonext.BoolAsStringConverter)
	_, err := opts.Freeze()
	assert.ErrorIs(t, err, jsonext.ErrConfiguration)
}

func TestOptions_BindPromotedField(t *testing.T) {
	type outer struct {
		enumHolder
		Extra int `json:"extra"`
	}
	opts := &jsonext.Options{}
	opts.BindField(outer{}, "EnumVals", jsonext.CollectionItemConverter(jsonext.TagOf(jsonext.NewCamelCaseStringEnumConverter())))
	s, err := opts.Freeze()
	require.NoError(t, err)

	out, err := s.MarshalToString(outer{enumHolder: enumHolder{EnumVals: []testEnum{Val2}}, Extra: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"enumVals":["val2"],"extra":1}`, out)
}

// ── serializer ──

func TestSerializer_IsCodec(t *testing.T) {
	s, err := jsonext.NewSerializer(nil)
	require.NoError(t, err)

	var c codec.Codec = s
	assert.Equal(t, "jsonext", c.Name())

	b, err := c.Marshal(message{Text: "x"})
	require.NoError(t, err)
	var plain message
	require.NoError(t, codec.Default.Unmarshal(b, &plain))
	assert.Equal(t, "x", plain.Text)
}

func TestSerializer_Concurrent(t *testing.T) {
	s := enumListSerializer(t, jsonext.NewCamelCaseStringEnumConverter())
	in := enumHolder{EnumVals: []testEnum{Val1, Val2, EnumValue2}}
	const want = `{"enumVals":["val1","val2","enumValue2"]}`

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			out, err := s.MarshalToString(in)
			if err != nil {
				return err
			}
			if out != want {
				t.Errorf("got %s", out)
			}
			var back enumHolder
			return s.UnmarshalFromString(out, &back)
		})
	}
	require.NoError(t, g.Wait())
}
