package template

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	row := Row{
		"brand":    String("Acme"),
		"price":    Number(42),
		"in_stock": Bool(true),
		"color":    String(""),
		"nullish":  {},
	}

	tests := []struct {
		name string
		tpl  string
		want string
	}{
		{"empty template", "", ""},
		{"no placeholders", "Buy now", "Buy now"},
		{"single substitution", "Buy {brand} today", "Buy Acme today"},
		{"number coerced", "Only {price} USD", "Only 42 USD"},
		{"bool coerced", "available: {in_stock}", "available: true"},
		{"missing column stays literal", "Buy {model} today", "Buy {model} today"},
		{"empty value stays literal", "in {color}", "in {color}"},
		{"null value stays literal", "x {nullish} y", "x {nullish} y"},
		{"modifier resolved", "{brand|upper}", "Acme"},
		{"modifier kept when missing", "{model|upper}", "{model|upper}"},
		{"malformed identifier is literal", "{1bad} {a-b} {}", "{1bad} {a-b} {}"},
		{"multiple occurrences", "{brand} vs {brand}", "Acme vs Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.tpl, row))
		})
	}
}

func TestInterpolate_NoRecursion(t *testing.T) {
	row := Row{"a": String("{b}"), "b": String("oops")}
	got := Interpolate("{a}", row)
	if got != "{b}" {
		t.Fatalf("substituted value was re-scanned: %q", got)
	}
}

func TestInterpolate_FullyResolvedHasNoBraces(t *testing.T) {
	row := Row{"brand": String("Acme"), "city": String("Pune")}
	got := Interpolate("{brand} in {city}", row)
	if strings.ContainsAny(got, "{}") {
		t.Fatalf("unexpected braces in %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		tpl  string
		want []string
	}{
		{"", nil},
		{"plain text", nil},
		{"{a} {b|mod} {a}", []string{"a", "b"}},
		{"{1bad} {ok}", []string{"ok"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Placeholders(tt.tpl))
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"s":"x","n":1.5,"b":false,"z":null}`), &row)
	assert.NoError(t, err)
	assert.Equal(t, String("x"), row["s"])
	assert.Equal(t, Number(1.5), row["n"])
	assert.Equal(t, Bool(false), row["b"])
	assert.True(t, row["z"].Empty())
}
