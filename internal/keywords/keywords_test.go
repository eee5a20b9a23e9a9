package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ad-campaign-builder/internal/template"
)

func TestGenerate_AllTypes(t *testing.T) {
	got := Generate(
		[]string{"buy"},
		[]string{"shoes"},
		[]string{"online"},
		Types(CoreOnly, PrefixCore, CoreSuffix, Full),
	)
	assert.Equal(t, []string{"shoes", "buy shoes", "shoes online", "buy shoes online"}, got)
}

func TestGenerate_EmptyCoreTerms(t *testing.T) {
	got := Generate([]string{"buy"}, nil, []string{"online"}, Types(CoreOnly, Full))
	assert.Empty(t, got)

	got = Generate(nil, []string{"  ", ""}, []string{"x"}, Types(CoreOnly))
	assert.Empty(t, got)
}

func TestGenerate_TrimAndDropBlanks(t *testing.T) {
	got := Generate(
		[]string{" buy ", ""},
		[]string{" shoes "},
		[]string{"  "},
		Types(CoreOnly, PrefixCore, CoreSuffix),
	)
	// blank suffixes make coreSuffix a no-op
	assert.Equal(t, []string{"shoes", "buy shoes"}, got)
}

func TestGenerate_Dedup(t *testing.T) {
	// "red shoes" appears as a core term and as prefix+core; only the
	// first occurrence survives
	got := Generate(
		[]string{"red"},
		[]string{"red shoes", "shoes"},
		nil,
		Types(CoreOnly, PrefixCore),
	)
	assert.Equal(t, []string{"red shoes", "red red shoes", "shoes"}, got)
}

func TestGenerate_NoEnabledTypes(t *testing.T) {
	got := Generate([]string{"buy"}, []string{"shoes"}, []string{"online"}, TypeSet{})
	assert.Empty(t, got)
}

func TestPreview(t *testing.T) {
	rule := Rule{
		CoreTermPattern: "{brand} shoes",
		Prefixes:        []string{"buy"},
		Enabled:         Types(CoreOnly, PrefixCore),
	}
	row := template.Row{"brand": template.String("Acme")}
	assert.Equal(t, []string{"Acme shoes", "buy Acme shoes"}, Preview(rule, row))
}
