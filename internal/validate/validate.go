package validate

import (
	"fmt"
	"strings"

	"ad-campaign-builder/internal/builder"
	"ad-campaign-builder/internal/keywords"
	"ad-campaign-builder/internal/replies"
	"ad-campaign-builder/internal/template"
)

// ColumnDescriptor describes one source column, for validation and
// autocomplete only; interpolation never consults it.
type ColumnDescriptor struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"` // "string" | "number" | "boolean" | "date" | "unknown"
	SampleValues []string `json:"sample_values,omitempty"`
}

// Result partitions findings into blocking errors and advisory warnings.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Result) errf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) finish() Result {
	r.Valid = len(r.Errors) == 0
	return *r
}

// Thread is the reply-thread validation subject.
type Thread struct {
	Title     string              `json:"title"`
	Subreddit string              `json:"subreddit"`
	Authors   []string            `json:"authors"`
	Nodes     []replies.ReplyNode `json:"nodes"`
}

// Campaign checks the campaign name pattern against the declared columns.
func Campaign(cfg builder.CampaignConfig, cols []ColumnDescriptor) Result {
	var r Result
	requireTemplate(&r, "campaign name", cfg.NamePattern, cols)
	return r.finish()
}

// Hierarchy checks every ad-group and ad template against the declared
// columns. An ad group with no ads is allowed but flagged.
func Hierarchy(cfg builder.HierarchyConfig, cols []ColumnDescriptor) Result {
	var r Result
	for i, g := range cfg.AdGroups {
		label := g.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		requireTemplate(&r, fmt.Sprintf("ad group %s name", label), g.NamePattern, cols)
		if len(g.Ads) == 0 {
			r.warnf("ad group %s has no ads", label)
		}
		for j, ad := range g.Ads {
			adLabel := ad.ID
			if adLabel == "" {
				adLabel = fmt.Sprintf("%s/#%d", label, j+1)
			}
			requireTemplate(&r, fmt.Sprintf("ad %s headline", adLabel), ad.Headline, cols)
			checkPlaceholders(&r, fmt.Sprintf("ad %s description", adLabel), ad.Description, cols)
		}
	}
	return r.finish()
}

// KeywordRule checks that the rule can produce output at all.
func KeywordRule(rule keywords.Rule, cols []ColumnDescriptor) Result {
	var r Result
	if len(rule.Enabled) == 0 {
		r.errf("keyword rule has no enabled combination types")
	}
	checkPlaceholders(&r, "core term", rule.CoreTermPattern, cols)
	return r.finish()
}

// ReplyThread checks a thread draft. Empty bodies and unknown authors are
// tolerated while drafting, so they warn rather than block.
func ReplyThread(th Thread) Result {
	var r Result
	if strings.TrimSpace(th.Title) == "" {
		r.errf("thread title must not be empty")
	}
	if strings.TrimSpace(th.Subreddit) == "" {
		r.errf("thread subreddit must not be empty")
	}
	known := map[string]struct{}{replies.DefaultAuthorID: {}}
	for _, a := range th.Authors {
		known[a] = struct{}{}
	}
	for _, n := range th.Nodes {
		if strings.TrimSpace(n.Body) == "" {
			r.warnf("reply %d has an empty body", n.ID)
		}
		if _, ok := known[n.AuthorRef]; !ok {
			r.warnf("reply %d references unknown author %q", n.ID, n.AuthorRef)
		}
	}
	return r.finish()
}

// requireTemplate errors on a blank required template, then checks its
// placeholders.
func requireTemplate(r *Result, label, tpl string, cols []ColumnDescriptor) {
	if strings.TrimSpace(tpl) == "" {
		r.errf("%s must not be empty", label)
		return
	}
	checkPlaceholders(r, label, tpl, cols)
}

func checkPlaceholders(r *Result, label, tpl string, cols []ColumnDescriptor) {
	declared := map[string]struct{}{}
	for _, c := range cols {
		declared[c.Name] = struct{}{}
	}
	for _, ident := range template.Placeholders(tpl) {
		if _, ok := declared[ident]; !ok {
			r.errf("%s references unknown column %q", label, ident)
		}
	}
}
