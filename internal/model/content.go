package model

// ScrapedContent is the normalized record the content-extraction service
// returns for a product website.
type ScrapedContent struct {
	Title       string   `json:"title"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Gallery     []string `json:"gallery"`
	Features    []string `json:"features"`
	Source      string   `json:"source"`
}

// AnalystOutput is the structured result of content analysis: the narrative
// building blocks every promo video is cut from.
type AnalystOutput struct {
	Hook     string `json:"hook" validate:"required"`
	Solution string `json:"solution" validate:"required"`
	Stack    string `json:"stack" validate:"required"`
}
