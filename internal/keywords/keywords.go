package keywords

import (
	"strings"

	"ad-campaign-builder/internal/template"
)

// CombinationType selects how prefixes and suffixes combine with a core term.
type CombinationType string

const (
	CoreOnly   CombinationType = "core_only"
	PrefixCore CombinationType = "prefix_core"
	CoreSuffix CombinationType = "core_suffix"
	Full       CombinationType = "full"
)

type TypeSet map[CombinationType]bool

func Types(ts ...CombinationType) TypeSet {
	s := TypeSet{}
	for _, t := range ts {
		s[t] = true
	}
	return s
}

// Rule is an editable keyword recipe. CoreTermPattern may contain
// {column} placeholders for per-row previewing.
type Rule struct {
	CoreTermPattern string   `json:"core_term_pattern"`
	Prefixes        []string `json:"prefixes"`
	Suffixes        []string `json:"suffixes"`
	Enabled         TypeSet  `json:"enabled"`
}

// Generate expands prefix/core/suffix lists into a deduplicated keyword
// list. Blank entries are dropped after trimming; empty core terms yield
// an empty result no matter what else is set. Output keeps first-occurrence
// order: per core term coreOnly, then prefix+core, core+suffix, and
// prefix+core+suffix combinations.
func Generate(prefixes, coreTerms, suffixes []string, enabled TypeSet) []string {
	prefixes = clean(prefixes)
	coreTerms = clean(coreTerms)
	suffixes = clean(suffixes)
	if len(coreTerms) == 0 {
		return nil
	}

	var out []string
	seen := map[string]struct{}{}
	emit := func(phrase string) {
		if _, dup := seen[phrase]; dup {
			return
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}

	for _, core := range coreTerms {
		if enabled[CoreOnly] {
			emit(core)
		}
		if enabled[PrefixCore] {
			for _, p := range prefixes {
				emit(p + " " + core)
			}
		}
		if enabled[CoreSuffix] {
			for _, s := range suffixes {
				emit(core + " " + s)
			}
		}
		if enabled[Full] {
			for _, p := range prefixes {
				for _, s := range suffixes {
					emit(p + " " + core + " " + s)
				}
			}
		}
	}
	return out
}

// Preview resolves the rule's core term pattern against one sample row and
// generates from the result.
func Preview(rule Rule, row template.Row) []string {
	core := template.Interpolate(rule.CoreTermPattern, row)
	return Generate(rule.Prefixes, []string{core}, rule.Suffixes, rule.Enabled)
}

func clean(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
