package jsonext_test

import (
	"os"
	"testing"
	"unicode/utf16"

	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramjotsingh/jsonext"
)

// esc builds a \u escape without spelling it out in source.
func esc(hex string) string { return "\\" + "u" + hex }

type message struct {
	Text string `json:"text"`
}

func escapingSerializer(t *testing.T, enc jsonext.TextEncoder) *jsonext.Serializer {
	t.Helper()
	s, err := jsonext.NewSerializer(&jsonext.Options{Encoder: enc, SortMapKeys: true})
	require.NoError(t, err)
	return s
}

// ── scanners ──

func TestFindFirstEscapeIndex(t *testing.T) {
	cases := []struct {
		name string
		enc  jsonext.TextEncoder
		in   string
		want int
	}{
		{"empty", jsonext.NewtonsoftCompatibleEncoder, "", jsonext.NoEscape},
		{"plain", jsonext.NewtonsoftCompatibleEncoder, "hello", jsonext.NoEscape},
		{"emoji first", jsonext.NewtonsoftCompatibleEncoder, "😀", jsonext.NoEscape},
		{"emoji then text", jsonext.NewtonsoftCompatibleEncoder, "😀abc", jsonext.NoEscape},
		{"emoji then newline", jsonext.NewtonsoftCompatibleEncoder, "😀\n", 4},
		{"quote", jsonext.NewtonsoftCompatibleEncoder, `ab"`, 2},
		{"relaxed emoji", jsonext.RelaxedEncoder, "a😀", 1},
		{"relaxed html", jsonext.RelaxedEncoder, "<a href='x'>&</a>", jsonext.NoEscape},
		{"invalid utf8", jsonext.NewtonsoftCompatibleEncoder, "ab\xff", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, jsonext.FindFirstEscapeIndex(tc.enc, tc.in))
		})
	}
}

func TestFindFirstEscapeIndexUTF16(t *testing.T) {
	enc := jsonext.NewtonsoftCompatibleEncoder
	assert.Equal(t, jsonext.NoEscape, jsonext.FindFirstEscapeIndexUTF16(enc, utf16.Encode([]rune("😀x"))))
	assert.Equal(t, 3, jsonext.FindFirstEscapeIndexUTF16(enc, utf16.Encode([]rune("😀x\t"))))
	// lone high surrogate
	assert.Equal(t, 1, jsonext.FindFirstEscapeIndexUTF16(enc, []uint16{'a', 0xd83d, 'b'}))
}

// ── string output ──

func TestNewtonsoftEncoder_KeepsEmoji(t *testing.T) {
	s := escapingSerializer(t, jsonext.NewtonsoftCompatibleEncoder)
	out, err := s.MarshalToString(message{Text: "hi 😀 👍🏽 café"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"hi 😀 👍🏽 café"}`, out)
}

func TestNewtonsoftEncoder_EscapesControlAndQuotes(t *testing.T) {
	s := escapingSerializer(t, jsonext.NewtonsoftCompatibleEncoder)
	out, err := s.MarshalToString(message{Text: "😀\"\n" + "\x01"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"😀\"\n`+esc("0001")+`"}`, out)
}

func TestRelaxedEncoder_EscapesAstral(t *testing.T) {
	s := escapingSerializer(t, jsonext.RelaxedEncoder)
	out, err := s.MarshalToString(message{Text: "😀"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"`+esc("D83D")+esc("DE00")+`"}`, out)

	var back message
	require.NoError(t, s.UnmarshalFromString(out, &back))
	assert.Equal(t, "😀", back.Text)
}

func TestEncoder_MapKeys(t *testing.T) {
	s := escapingSerializer(t, jsonext.RelaxedEncoder)
	out, err := s.MarshalToString(map[string]string{"a\tb": "😀"})
	require.NoError(t, err)
	assert.Equal(t, `{"a\tb":"`+esc("D83D")+esc("DE00")+`"}`, out)
}

func TestEncoder_NilUsesHostEscaping(t *testing.T) {
	s, err := jsonext.NewSerializer(&jsonext.Options{EscapeHTML: true})
	require.NoError(t, err)
	out, err := s.MarshalToString(message{Text: "<😀>"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"`+esc("003c")+`😀`+esc("003e")+`"}`, out)

	// an explicit encoder takes precedence over EscapeHTML
	s, err = jsonext.NewSerializer(&jsonext.Options{EscapeHTML: true, Encoder: jsonext.NewtonsoftCompatibleEncoder})
	require.NoError(t, err)
	out, err = s.MarshalToString(message{Text: "<😀>"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"<😀>"}`, out)
}

func TestEncoder_EnumNamesUseEncoder(t *testing.T) {
	jsonext.RegisterEnum(map[mood]string{Happy: "Happy😀"})
	s, err := jsonext.NewSerializer(&jsonext.Options{
		Encoder:    jsonext.RelaxedEncoder,
		Converters: []jsonext.Converter{jsonext.NewStringEnumConverter()},
	})
	require.NoError(t, err)
	out, err := s.MarshalToString(Happy)
	require.NoError(t, err)
	assert.Equal(t, `"Happy`+esc("D83D")+esc("DE00")+`"`, out)
}

type mood int

const Happy mood = 1

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"ok 😀"`, jsonext.QuoteString(jsonext.NewtonsoftCompatibleEncoder, "ok 😀"))
	assert.Equal(t, `"`+esc("00AD")+`"`, jsonext.QuoteString(jsonext.NewtonsoftCompatibleEncoder, "\xc2\xad"))
}

// ── fixture round trip ──

func TestNewtonsoftEncoder_FixtureRoundTrip(t *testing.T) {
	data, err := os.ReadFile("testdata/emoji.json")
	require.NoError(t, err)

	var want map[string]string
	require.NoError(t, gojson.Unmarshal(data, &want))

	s := escapingSerializer(t, jsonext.NewtonsoftCompatibleEncoder)
	var decoded map[string]string
	require.NoError(t, s.Unmarshal(data, &decoded))

	out, err := s.Marshal(decoded)
	require.NoError(t, err)
	require.True(t, gojson.Valid(out), "output is not valid JSON: %s", out)
	assert.Contains(t, string(out), "😀😂🥲")
	assert.Contains(t, string(out), "👨‍👩‍👧")
	assert.Contains(t, string(out), `tab\there`)

	var got map[string]string
	require.NoError(t, gojson.Unmarshal(out, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializer_TrailingBytes(t *testing.T) {
	s := escapingSerializer(t, nil)
	var m message
	err := s.UnmarshalFromString(`{"text":"a"} x`, &m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsonext.ErrTypeMismatch))
}
