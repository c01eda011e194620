package escape_test

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramjotsingh/jsonext/internal/escape"
)

// ── Relaxed.WillEncode ───────────────────────────────────────────────────────

func TestRelaxed_WillEncode(t *testing.T) {
	cases := []struct {
		name string
		r    rune
		want bool
	}{
		{"letter", 'a', false},
		{"space", ' ', false},
		{"less than", '<', false},
		{"ampersand", '&', false},
		{"apostrophe", '\'', false},
		{"plus", '+', false},
		{"nbsp", 0x00a0, false},
		{"e acute", 0x00e9, false},
		{"cjk", 0x4e2d, false},
		{"replacement char", 0xfffd, false},
		{"quote", '"', true},
		{"backslash", '\\', true},
		{"newline", '\n', true},
		{"nul", 0, true},
		{"del", 0x7f, true},
		{"c1 control", 0x85, true},
		{"line separator", 0x2028, true},
		{"paragraph separator", 0x2029, true},
		{"bom", 0xfeff, true},
		{"zwj", 0x200d, true},
		{"private use", 0xe000, true},
		{"unassigned", 0x0378, true},
		{"lone surrogate", 0xd800, true},
		{"astral emoji", 0x1f600, true},
		{"astral letter", 0x1d400, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escape.Relaxed.WillEncode(tc.r))
		})
	}
}

// u renders the six-character escape for a UTF-16 code unit.
func u(hex string) string { return "\\" + "u" + hex }

// ── Relaxed.TryEncodeScalar ──────────────────────────────────────────────────

func TestRelaxed_TryEncodeScalar(t *testing.T) {
	cases := []struct {
		r    rune
		want string
	}{
		{'"', `\"`},
		{'\\', `\\`},
		{'\b', `\b`},
		{'\f', `\f`},
		{'\n', `\n`},
		{'\r', `\r`},
		{'\t', `\t`},
		{0x01, `\u0001`},
		{0x2028, u("2028")},
		{0xfeff, u("FEFF")},
		{0x1f600, u("D83D") + u("DE00")},
		{0xd800, u("FFFD")},
	}
	buf := make([]byte, 12)
	for _, tc := range cases {
		n, ok := escape.Relaxed.TryEncodeScalar(tc.r, buf)
		require.True(t, ok)
		assert.Equal(t, tc.want, string(buf[:n]))
	}
}

func TestRelaxed_TryEncodeScalar_ShortBuffer(t *testing.T) {
	n, ok := escape.Relaxed.TryEncodeScalar(0x2028, make([]byte, 5))
	assert.False(t, ok)
	assert.Zero(t, n)

	n, ok = escape.Relaxed.TryEncodeScalar(0x1f600, make([]byte, 6))
	assert.False(t, ok)
	assert.Zero(t, n)

	n, ok = escape.Relaxed.TryEncodeScalar('\n', make([]byte, 1))
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestRelaxed_MaxOutput(t *testing.T) {
	assert.Equal(t, 6, escape.Relaxed.MaxOutputCharactersPerInputCharacter())
}

// ── FindFirstEscapeIndex ─────────────────────────────────────────────────────

func TestFindFirstEscapeIndex(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", escape.None},
		{"clean ascii", "hello world", escape.None},
		{"clean html", "<a href='x'>&</a>", escape.None},
		{"clean multibyte", "héllo 中文", escape.None},
		{"quote at start", `"x`, 0},
		{"newline in middle", "ab\ncd", 2},
		{"after multibyte", "é\t", 2},
		{"astral", "ok😀", 2},
		{"invalid byte", "ab\xffcd", 2},
		{"truncated sequence", "ab\xe4\xb8", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escape.FindFirstEscapeIndex(escape.Relaxed, tc.in))
		})
	}
}

func TestFindFirstEscapeIndexUTF16(t *testing.T) {
	enc := utf16.Encode
	cases := []struct {
		name string
		in   []uint16
		want int
	}{
		{"empty", nil, escape.None},
		{"clean", enc([]rune("abc")), escape.None},
		{"control", enc([]rune("a\u0001")), 1},
		{"pair counts once", enc([]rune("a😀b")), 1},
		{"lone low surrogate", []uint16{'a', 0xdc00, 'b'}, 1},
		{"trailing high surrogate", []uint16{'a', 'b', 0xd83d}, 2},
		{"high then non low", []uint16{0xd83d, 'x'}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escape.FindFirstEscapeIndexUTF16(escape.Relaxed, tc.in))
		})
	}
}

// neverEscape only escapes what JSON syntax demands.
type neverEscape struct{ escape.Encoder }

func (neverEscape) WillEncode(r rune) bool { return r == '"' || r == '\\' || r < 0x20 }

func TestFindFirstEscapeIndexUTF16_PairNotSplit(t *testing.T) {
	in := utf16.Encode([]rune("😀😀"))
	assert.Equal(t, escape.None, escape.FindFirstEscapeIndexUTF16(neverEscape{escape.Relaxed}, in))
}

// ── AppendQuoted / Quote ─────────────────────────────────────────────────────

func TestQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"line\nbreak\ttab", `"line\nbreak\ttab"`},
		{"<tag>&'", `"<tag>&'"`},
		{"😀", `"` + u("D83D") + u("DE00") + `"`},
		{"bad\xffbyte", `"bad` + u("FFFD") + `byte"`},
		{"\u2028", `"` + u("2028") + `"`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, escape.Quote(escape.Relaxed, tc.in))
	}
}

func TestAppendQuoted_Appends(t *testing.T) {
	out := escape.AppendQuoted(escape.Relaxed, []byte("prefix:"), "v")
	assert.Equal(t, `prefix:"v"`, string(out))
}

func TestQuote_CustomEncoderKeepsAstral(t *testing.T) {
	assert.Equal(t, `"😀\n"`, escape.Quote(neverEscape{escape.Relaxed}, "😀\n"))
}
