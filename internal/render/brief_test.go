package render

import (
	"strings"
	"testing"

	"github.com/motionforge/api/internal/model"
)

func briefStoryboard() *model.VideoStoryboard {
	return &model.VideoStoryboard{
		ProductName:          "Acme",
		VideoConcept:         "Dark to light reveal.",
		ColorPalette:         []string{"#0A0E27", "#1E88E5", "#FFFFFF"},
		TotalDurationSeconds: 18,
		Scenes: []model.SceneDescription{
			{SceneNumber: 1, SceneName: "Hook", DurationSeconds: 5, HeadlineText: "Stop waiting", VisualConcept: "Dark background", VoiceoverScript: "Stop waiting."},
			{SceneNumber: 2, SceneName: "CTA", DurationSeconds: 13, HeadlineText: "Try Acme", VisualConcept: "Logo centered"},
		},
		ImageURLs:            []string{"https://example.com/shot.png"},
		BackgroundMusicStyle: "upbeat",
		ClosingCTA:           "Try Acme today",
	}
}

func TestBuildBrief(t *testing.T) {
	assets := []model.AudioAsset{
		{SceneNumber: 1, Filename: "voiceover_scene_1.mp3", DurationEstimate: 1.2, Script: "Stop waiting."},
	}

	brief := BuildBrief(briefStoryboard(), "video_abc.mp4", assets, "background_music.mp3")

	for _, want := range []string{
		"## Product: Acme",
		"Dark to light reveal.",
		"`#1E88E5`",
		"Total duration: 18s (540 frames at 30fps)",
		"### Scene 1: Hook",
		"5s (150 frames)",
		"### Scene 2: CTA",
		"voiceover_scene_1.mp3",
		"https://example.com/shot.png",
		"background_music.mp3",
		"out/video_abc.mp4",
		"\"Try Acme today\"",
	} {
		if !strings.Contains(brief, want) {
			t.Errorf("brief missing %q", want)
		}
	}

	// Scene 2 has no voiceover asset; its section must not claim one.
	sceneTwo := brief[strings.Index(brief, "### Scene 2"):]
	if i := strings.Index(sceneTwo, "---"); i >= 0 {
		sceneTwo = sceneTwo[:i]
	}
	if strings.Contains(sceneTwo, "Voiceover audio") {
		t.Error("scene without audio lists a voiceover file")
	}
}

func TestBuildBriefWithoutMedia(t *testing.T) {
	sb := briefStoryboard()
	sb.ImageURLs = nil

	brief := BuildBrief(sb, "out.mp4", nil, "")

	if strings.Contains(brief, "## Images to Download") {
		t.Error("images section present with no image URLs")
	}
	if strings.Contains(brief, "## Audio Files") {
		t.Error("audio section present with no audio")
	}
}
