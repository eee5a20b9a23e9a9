package tests

import (
	"fmt"
	"testing"

	"ad-campaign-builder/internal/builder"
	"ad-campaign-builder/internal/template"
)

func BenchmarkBuild(b *testing.B) {
	campaign := builder.CampaignConfig{NamePattern: "{brand} - {category}"}
	hierarchy := builder.HierarchyConfig{AdGroups: []builder.AdGroupDefinition{
		{NamePattern: "{category}", Ads: []builder.AdDefinition{
			{Headline: "{brand} {model}", Description: "Best {category} deals"},
			{Headline: "Shop {model}", Description: "{brand} official store"},
		}},
	}}

	rows := make([]template.Row, 0, 1000)
	for i := 0; i < 1000; i++ {
		rows = append(rows, template.Row{
			"brand":    template.String(fmt.Sprintf("brand-%d", i%10)),
			"category": template.String(fmt.Sprintf("cat-%d", i%25)),
			"model":    template.String(fmt.Sprintf("model-%d", i)),
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = builder.Build(campaign, hierarchy, rows)
	}
}
