package model

// SceneDescription is one scene of an agentic-mode storyboard.
type SceneDescription struct {
	SceneNumber     int     `json:"scene_number" validate:"required,min=1"`
	SceneName       string  `json:"scene_name" validate:"required"`
	DurationSeconds float64 `json:"duration_seconds" validate:"required,gt=0"`
	HeadlineText    string  `json:"headline_text" validate:"required"`
	SupportingText  string  `json:"supporting_text"`
	VisualConcept   string  `json:"visual_concept" validate:"required"`
	AnimationNotes  string  `json:"animation_notes"`
	VoiceoverScript string  `json:"voiceover_script"`
}

// VideoStoryboard is the free-form scene-by-scene creative plan the agentic
// driver hands to the coding agent. It is not tied to any template.
type VideoStoryboard struct {
	ProductName          string             `json:"product_name" validate:"required"`
	VideoConcept         string             `json:"video_concept" validate:"required"`
	ColorPalette         []string           `json:"color_palette" validate:"required,min=3,max=6,dive,hexcolor"`
	TotalDurationSeconds float64            `json:"total_duration_seconds" validate:"required,gt=0"`
	Scenes               []SceneDescription `json:"scenes" validate:"required,min=3,max=7,dive"`
	ImageURLs            []string           `json:"image_urls"`
	BackgroundMusicStyle string             `json:"background_music_style"`
	ClosingCTA           string             `json:"closing_cta" validate:"required"`
}

// AudioAsset describes one generated voiceover file. DurationEstimate is
// derived from word count, never measured from the audio itself; it only
// informs the implementation brief.
type AudioAsset struct {
	SceneNumber      int     `json:"scene_number"`
	Filename         string  `json:"filename"`
	DurationEstimate float64 `json:"duration_estimate"`
	Script           string  `json:"script"`
}
