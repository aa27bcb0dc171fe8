package models

// TrendItem is a trending topic card
type TrendItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Type        string `json:"type"`
}

// Video is a single video recommendation
type Video struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Course is a single course recommendation
type Course struct {
	Title       string `json:"title"`
	Provider    string `json:"provider,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Recommendation groups the "what's next" suggestions.
type Recommendation struct {
	Course *Course `json:"course,omitempty"`
	Video  *Video  `json:"video,omitempty"`
}

// DashboardView is the aggregated read model served to the dashboard
type DashboardView struct {
	ProfileSummary ProfileSummary `json:"profileSummary"`
	Goals          []GoalView     `json:"goals"`
	Trends         []TrendItem    `json:"trends"`
	Recommendation Recommendation `json:"recommendation"`
	Activities     []Activity     `json:"activities"`
}
