package builder

// AdDefinition is one ad template inside an ad group. Headline and
// Description may contain {column} placeholders.
type AdDefinition struct {
	ID           string `json:"id"`
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	DisplayURL   string `json:"display_url,omitempty"`
	FinalURL     string `json:"final_url,omitempty"`
	CallToAction string `json:"call_to_action,omitempty"`
}

type AdGroupDefinition struct {
	ID          string         `json:"id"`
	NamePattern string         `json:"name_pattern"`
	Ads         []AdDefinition `json:"ads"`
	Keywords    []string       `json:"keywords,omitempty"`
}

type HierarchyConfig struct {
	AdGroups []AdGroupDefinition `json:"ad_groups"`
}

type CampaignConfig struct {
	NamePattern string `json:"name_pattern"`
}

// GeneratedAd is one interpolated, deduplicated ad.
type GeneratedAd struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

type GeneratedAdGroup struct {
	Name string        `json:"name"`
	Ads  []GeneratedAd `json:"ads"`
}

type GeneratedCampaign struct {
	Name     string             `json:"name"`
	AdGroups []GeneratedAdGroup `json:"ad_groups"`
}

type BuildResult struct {
	Campaigns      []GeneratedCampaign `json:"campaigns"`
	TotalCampaigns int                 `json:"total_campaigns"`
	TotalAdGroups  int                 `json:"total_ad_groups"`
	TotalAds       int                 `json:"total_ads"`
}
