package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/motionforge/api/internal/config"
	"github.com/motionforge/api/internal/model"
)

// ScraperClient extracts normalized product content from a website via the
// Firecrawl scrape API.
type ScraperClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type scrapeRequest struct {
	URL     string        `json:"url"`
	Formats []string      `json:"formats"`
	Extract scrapeExtract `json:"extract"`
}

type scrapeExtract struct {
	Schema map[string]interface{} `json:"schema"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Metadata map[string]string `json:"metadata"`
		Extract  struct {
			ProductName string   `json:"product_name"`
			Tagline     string   `json:"tagline"`
			Description string   `json:"description"`
			Features    []string `json:"features"`
			OGImage     string   `json:"og_image"`
		} `json:"extract"`
		Markdown string `json:"markdown"`
	} `json:"data"`
}

func NewScraperClient(cfg *config.FirecrawlConfig) *ScraperClient {
	return &ScraperClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// IsConfigured returns true if the client has an API key.
func (c *ScraperClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Scrape fetches and normalizes a product page. A nil error guarantees a
// usable record; any failure is returned to the caller, which treats it as
// fatal for the job.
func (c *ScraperClient) Scrape(ctx context.Context, url string) (*model.ScrapedContent, error) {
	reqBody := scrapeRequest{
		URL:     url,
		Formats: []string{"markdown", "extract"},
		Extract: scrapeExtract{
			Schema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"product_name": map[string]string{"type": "string"},
					"tagline":      map[string]string{"type": "string"},
					"description":  map[string]string{"type": "string"},
					"features": map[string]interface{}{
						"type":  "array",
						"items": map[string]string{"type": "string"},
					},
					"og_image": map[string]string{"type": "string"},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var sr scrapeResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !sr.Success {
		return nil, fmt.Errorf("scrape failed: %s", sr.Error)
	}

	extract := sr.Data.Extract
	metadata := sr.Data.Metadata

	title := firstNonEmpty(extract.ProductName, metadata["og:title"], metadata["title"])
	description := firstNonEmpty(extract.Description, metadata["og:description"])
	tagline := firstNonEmpty(extract.Tagline, metadata["description"])
	ogImage := firstNonEmpty(extract.OGImage, metadata["og:image"])

	var gallery []string
	if ogImage != "" {
		gallery = append(gallery, ogImage)
	}

	if len(strings.TrimSpace(description)) < 20 && len(sr.Data.Markdown) < 100 {
		return nil, fmt.Errorf("scrape returned very little content")
	}

	content := &model.ScrapedContent{
		Title:       title,
		Tagline:     tagline,
		Description: strings.TrimSpace(description + "\n\n" + strings.Join(extract.Features, "\n")),
		Gallery:     gallery,
		Features:    extract.Features,
		Source:      "firecrawl",
	}
	if content.Title == "" {
		content.Title = "Unknown Product"
	}
	return content, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
