package template

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Value is one cell of a source row: text, number, boolean or absent.
// Rows come from arbitrary uploads, so the schema is resolved purely by
// key lookup at interpolation time.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// Text coerces the value to its string form. Absent values coerce to "".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Empty reports whether the value should leave a placeholder unresolved:
// absent, null, or the empty string.
func (v Value) Empty() bool {
	return v.Kind == KindAbsent || (v.Kind == KindString && v.Str == "")
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	default: // null
		*v = Value{}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

// Row is one record of tabular source data.
type Row map[string]Value

// placeholder is {identifier} or {identifier|modifier}; anything else
// between braces is literal text.
var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(\|[^{}]*)?\}`)

// Interpolate resolves every placeholder in tpl against row. A placeholder
// whose column is missing, null or empty stays in the output verbatim,
// modifier included, so a partially filled row is visible to the caller.
// Substituted values are never re-scanned.
func Interpolate(tpl string, row Row) string {
	if tpl == "" {
		return ""
	}
	return placeholder.ReplaceAllStringFunc(tpl, func(match string) string {
		ident := placeholder.FindStringSubmatch(match)[1]
		v, ok := row[ident]
		if !ok || v.Empty() {
			return match
		}
		return v.Text()
	})
}

// Placeholders returns the distinct identifiers referenced by tpl, in
// first-occurrence order.
func Placeholders(tpl string) []string {
	if tpl == "" {
		return nil
	}
	var out []string
	seen := map[string]struct{}{}
	for _, m := range placeholder.FindAllStringSubmatch(tpl, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}
