package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/motionforge/api/internal/client"
	"github.com/motionforge/api/internal/model"
)

const analystSystemPrompt = "You are a Senior Tech Journalist. Extract the core value proposition " +
	"from this product. Ignore marketing fluff. Focus on the Problem (Hook), Solution, and Tech Stack. " +
	`Respond with JSON: {"hook": "...", "solution": "...", "stack": "..."}`

const directorSystemPrompt = `You are a Creative Director and Copywriter for a high-impact promo video.
Translate the project details into a JSON configuration for a video template.

Constraints (STRICT):
- product.name: max 10 chars, ALL CAPS. product.tagline: max 50 chars.
- problem.line1: max 40 chars (setup). problem.line2: max 25 chars (punch line).
- solution.headline: max 45 chars. solution.subline: max 30 chars.
- 1-2 screenshots, each with up to 3 callouts (emoji icon + max 30 chars text).
- All colors are valid hex codes with high contrast.
- Use the Available Images URLs for screenshot "src" fields when relevant.
- If no images are available, use a placeholder URL (e.g. from placehold.co).
- NEVER leave "src" empty and never invent filenames.

Respond with the JSON configuration only: {"product": ..., "problem": ..., "solution": ...,
"screenshots": [...], "outro": ..., "theme": ...}`

const storyboardSystemPrompt = `You are a world-class Creative Director and Motion Designer.
Design an original promotional video storyboard from scratch; a developer will implement it,
so be specific about layouts, colors and animation timing.

Story arc: HOOK, PROBLEM, SOLUTION/SHOWCASE, PROOF, CTA.
For EACH scene write a voiceover_script: 1-2 punchy conversational sentences (50-150 chars).
Each scene's duration_seconds must cover its voiceover plus ~1 second of breathing room;
aim for 3-5 seconds per scene.
Choose background_music_style from: upbeat, calm, dramatic, corporate, none.
Practical constraints: 3-7 scenes, 15-25 seconds total, 1920x1080 at 30fps, system fonts only,
images only from the provided URL list, 3-6 hex colors in color_palette.

Respond with JSON: {"product_name": ..., "video_concept": ..., "color_palette": [...],
"total_duration_seconds": ..., "scenes": [...], "image_urls": [...],
"background_music_style": ..., "closing_cta": ...}`

// DirectorService runs the creative collaborators: analysis, templated
// direction, and agentic storyboarding. With no LLM configured it produces
// deterministic mock output so the rest of the pipeline stays exercisable.
type DirectorService struct {
	llm      *client.LLMClient
	validate *validator.Validate
}

func NewDirectorService(llm *client.LLMClient, validate *validator.Validate) *DirectorService {
	return &DirectorService{llm: llm, validate: validate}
}

// Analyze extracts the hook/solution/stack narrative from scraped content.
func (s *DirectorService) Analyze(ctx context.Context, content *model.ScrapedContent) (*model.AnalystOutput, error) {
	if !s.llm.IsConfigured() {
		return s.mockAnalysis(content), nil
	}

	contextJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	user := string(contextJSON)
	if len(user) > 30000 {
		user = user[:30000] + "...(truncated)"
	}

	var out model.AnalystOutput
	if err := s.llm.CompleteJSON(ctx, analystSystemPrompt, user, &out); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(&out); err != nil {
		return nil, fmt.Errorf("analyst returned incomplete output: %w", err)
	}
	return &out, nil
}

// Direct produces a templated CreativeConfiguration.
func (s *DirectorService) Direct(ctx context.Context, title string, analysis *model.AnalystOutput, images []string) (*model.CreativeConfiguration, error) {
	if !s.llm.IsConfigured() {
		return s.mockDirection(title, analysis, images), nil
	}

	analysisJSON, _ := json.Marshal(analysis)
	user := fmt.Sprintf("Project Title: %s\n\nAnalysis: %s\n\nAvailable Images: %v",
		title, analysisJSON, images)

	var out model.CreativeConfiguration
	if err := s.llm.CompleteJSON(ctx, directorSystemPrompt, user, &out); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(&out); err != nil {
		return nil, fmt.Errorf("director returned invalid configuration: %w", err)
	}
	return &out, nil
}

// Storyboard produces the free-form scene plan for agentic rendering.
func (s *DirectorService) Storyboard(ctx context.Context, productName string, analysis *model.AnalystOutput, images []string, description string, features []string) (*model.VideoStoryboard, error) {
	if !s.llm.IsConfigured() {
		return s.mockStoryboard(productName, analysis, images), nil
	}

	featuresStr := "Not listed, infer from the description"
	if len(features) > 0 {
		featuresStr = "- " + strings.Join(features, "\n- ")
	}
	imagesStr := "None available, design with typography and shapes"
	if len(images) > 0 {
		imagesStr = "- " + strings.Join(images, "\n- ")
	}

	user := fmt.Sprintf(`Product: %s

Analysis:
- Hook: %s
- Solution: %s
- Tech Stack: %s

Description:
%s

Key Features:
%s

Available Images:
%s`, productName, analysis.Hook, analysis.Solution, analysis.Stack, description, featuresStr, imagesStr)

	var out model.VideoStoryboard
	if err := s.llm.CompleteJSON(ctx, storyboardSystemPrompt, user, &out); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(&out); err != nil {
		return nil, fmt.Errorf("creative director returned invalid storyboard: %w", err)
	}
	return &out, nil
}

// Mock fallbacks for development without an LLM key.

func (s *DirectorService) mockAnalysis(content *model.ScrapedContent) *model.AnalystOutput {
	log.Printf("[director] LLM not configured, using mock analysis for '%s'", content.Title)
	return &model.AnalystOutput{
		Hook:     fmt.Sprintf("Teams struggle with what %s solves", content.Title),
		Solution: firstLine(content.Description, content.Tagline, "Does one thing well"),
		Stack:    "Modern web stack",
	}
}

func (s *DirectorService) mockDirection(title string, analysis *model.AnalystOutput, images []string) *model.CreativeConfiguration {
	log.Printf("[director] LLM not configured, using mock direction for '%s'", title)

	name := strings.ToUpper(title)
	if len(name) > 10 {
		name = name[:10]
	}
	src := "https://placehold.co/1920x1080/1E88E5/FFFFFF.png?text=Product"
	if len(images) > 0 {
		src = images[0]
	}

	return &model.CreativeConfiguration{
		Product: model.Product{
			Name:    name,
			Tagline: truncate(analysis.Solution, 50),
			Logo: model.Logo{
				Icon:           "bolt",
				PrimaryColor:   "#1E88E5",
				SecondaryColor: "#42A5F5",
			},
		},
		Problem: model.Problem{
			Line1:       truncate(analysis.Hook, 40),
			Line2:       "There has to be a better way",
			AccentColor: "#FF5252",
		},
		Solution: model.Solution{
			Headline: truncate("Meet "+title, 45),
			Subline:  truncate(analysis.Stack, 30),
		},
		Screenshots: []model.Screenshot{
			{
				Src: src,
				Callouts: []model.Callout{
					{Icon: "⚡", Text: "Fast by default"},
					{Icon: "🎯", Text: "Built for focus"},
				},
			},
		},
		Outro: model.Outro{
			Tagline: truncate("Try "+title+" today", 40),
		},
		Theme: model.Theme{
			Primary:    "#1E88E5",
			Accent:     "#FF5252",
			Background: "#0A0E27",
			Text:       "#FFFFFF",
		},
	}
}

func (s *DirectorService) mockStoryboard(productName string, analysis *model.AnalystOutput, images []string) *model.VideoStoryboard {
	log.Printf("[director] LLM not configured, using mock storyboard for '%s'", productName)

	return &model.VideoStoryboard{
		ProductName:  productName,
		VideoConcept: "A bold, minimal promo that moves from tension to relief: dark problem framing gives way to a bright product showcase.",
		ColorPalette: []string{"#0A0E27", "#1E88E5", "#FFFFFF", "#FF5252"},
		// Scene durations leave at least a second of air after each voiceover.
		TotalDurationSeconds: 18,
		Scenes: []model.SceneDescription{
			{
				SceneNumber:     1,
				SceneName:       "Hook",
				DurationSeconds: 5,
				HeadlineText:    truncate(analysis.Hook, 60),
				VisualConcept:   "Full-bleed dark background, oversized headline fading up word by word.",
				AnimationNotes:  "Word-by-word fade with 100ms stagger",
				VoiceoverScript: truncate(analysis.Hook, 120),
			},
			{
				SceneNumber:     2,
				SceneName:       "Solution",
				DurationSeconds: 6,
				HeadlineText:    "Meet " + productName,
				SupportingText:  truncate(analysis.Solution, 80),
				VisualConcept:   "Bright gradient background, product name sliding in with spring physics, screenshot card centered.",
				AnimationNotes:  "Card slides in from left with spring",
				VoiceoverScript: truncate("Meet "+productName+". "+analysis.Solution, 140),
			},
			{
				SceneNumber:     3,
				SceneName:       "CTA",
				DurationSeconds: 7,
				HeadlineText:    "Try " + productName + " today",
				VisualConcept:   "Logo centered, CTA text pulsing gently, background gradient slowly rotating.",
				AnimationNotes:  "Logo scale spring, slow gradient rotation",
				VoiceoverScript: "Try " + productName + " today.",
			},
		},
		ImageURLs:            images,
		BackgroundMusicStyle: "upbeat",
		ClosingCTA:           "Try " + productName + " today",
	}
}

func firstLine(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, '\n'); i > 0 {
			v = v[:i]
		}
		return v
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
