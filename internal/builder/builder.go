package builder

import (
	"ad-campaign-builder/internal/template"
)

// adKeySep joins headline and description into a dedup key. A control
// character cannot appear in ordinary ad copy, so "AB"+"C" and "A"+"BC"
// never collide. It must never leak into output.
const adKeySep = "\x1f"

type groupAcc struct {
	name string
	ads  []GeneratedAd
	seen map[string]struct{}
}

type campaignAcc struct {
	name   string
	order  []string
	groups map[string]*groupAcc
}

// Build expands the campaign and ad-group templates across rows into a
// deduplicated campaign tree. Campaigns and ad groups keep first-occurrence
// order over the row iteration; duplicate (headline, description) pairs
// within an ad group are silently dropped.
func Build(campaign CampaignConfig, hierarchy HierarchyConfig, rows []template.Row) BuildResult {
	var order []string
	camps := map[string]*campaignAcc{}

	for _, row := range rows {
		campaignName := template.Interpolate(campaign.NamePattern, row)
		camp, ok := camps[campaignName]
		if !ok {
			camp = &campaignAcc{name: campaignName, groups: map[string]*groupAcc{}}
			camps[campaignName] = camp
			order = append(order, campaignName)
		}

		for _, def := range hierarchy.AdGroups {
			groupName := template.Interpolate(def.NamePattern, row)
			grp, ok := camp.groups[groupName]
			if !ok {
				grp = &groupAcc{name: groupName, seen: map[string]struct{}{}}
				camp.groups[groupName] = grp
				camp.order = append(camp.order, groupName)
			}

			for _, ad := range def.Ads {
				headline := template.Interpolate(ad.Headline, row)
				description := template.Interpolate(ad.Description, row)
				key := headline + adKeySep + description
				if _, dup := grp.seen[key]; dup {
					continue
				}
				grp.seen[key] = struct{}{}
				grp.ads = append(grp.ads, GeneratedAd{Headline: headline, Description: description})
			}
		}
	}

	res := BuildResult{Campaigns: make([]GeneratedCampaign, 0, len(order))}
	for _, cname := range order {
		camp := camps[cname]
		gc := GeneratedCampaign{Name: camp.name, AdGroups: make([]GeneratedAdGroup, 0, len(camp.order))}
		for _, gname := range camp.order {
			grp := camp.groups[gname]
			gc.AdGroups = append(gc.AdGroups, GeneratedAdGroup{Name: grp.name, Ads: grp.ads})
			res.TotalAds += len(grp.ads)
		}
		res.TotalAdGroups += len(gc.AdGroups)
		res.Campaigns = append(res.Campaigns, gc)
	}
	res.TotalCampaigns = len(res.Campaigns)
	return res
}
