package jsonext

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
)

// NamingPolicy converts Go identifiers into JSON names.
type NamingPolicy interface {
	ConvertName(name string) string
}

// NamingPolicyFunc adapts a function to NamingPolicy.
type NamingPolicyFunc func(name string) string

// ConvertName calls f.
func (f NamingPolicyFunc) ConvertName(name string) string { return f(name) }

// CamelCase lowers the leading run of capitals: "BaseProp" becomes
// "baseProp", "URLPath" becomes "urlPath" and "ID" becomes "id".
var CamelCase NamingPolicy = NamingPolicyFunc(toCamelCase)

// SnakeCase converts "BaseProp" to "base_prop".
var SnakeCase NamingPolicy = NamingPolicyFunc(toSnakeCase)

func toCamelCase(s string) string {
	rs := []rune(s)
	if len(rs) == 0 || !unicode.IsUpper(rs[0]) {
		return s
	}
	for i := range rs {
		if i == 1 && !unicode.IsUpper(rs[i]) {
			break
		}
		hasNext := i+1 < len(rs)
		// keep the capital that starts the next word
		if i > 0 && hasNext && !unicode.IsUpper(rs[i+1]) {
			if rs[i+1] == ' ' {
				rs[i] = unicode.ToLower(rs[i])
			}
			break
		}
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}

func toSnakeCase(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			// an acronym stays one word until the next lower-case letter
			if i > 0 && (!unicode.IsUpper(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// namingExtension renames exported fields that carry no explicit name in
// their tag.
type namingExtension struct {
	jsoniter.DummyExtension
	policy NamingPolicy
	tagKey string
}

func (e *namingExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		if len(binding.ToNames) == 0 {
			continue
		}
		tag := binding.Field.Tag().Get(e.tagKey)
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			continue
		}
		name := e.policy.ConvertName(binding.Field.Name())
		binding.ToNames = []string{name}
		binding.FromNames = []string{name}
	}
}
