package render

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/motionforge/api/internal/model"
)

// wordsPerSecond is the assumed speaking rate (~150 words/min) used to
// estimate voiceover length from script text. The estimate only informs the
// implementation brief; actual audio is never measured.
const wordsPerSecond = 2.5

// backgroundMusicFile is the fixed destination filename the renderer and the
// coding agent both expect.
const backgroundMusicFile = "background_music.mp3"

// musicCatalog maps a storyboard music style to a bundled loop file.
var musicCatalog = map[string]string{
	"upbeat":    "background_upbeat.mp3",
	"calm":      "background_calm.mp3",
	"dramatic":  "background_dramatic.mp3",
	"corporate": "background_corporate.mp3",
}

const defaultMusicStyle = "upbeat"

// SpeechSynthesizer converts a script into audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioSynthesizer generates per-scene voiceovers and stages background
// music for a storyboard.
type AudioSynthesizer struct {
	tts      SpeechSynthesizer
	musicDir string
}

func NewAudioSynthesizer(tts SpeechSynthesizer, musicDir string) *AudioSynthesizer {
	return &AudioSynthesizer{tts: tts, musicDir: musicDir}
}

// GenerateSceneVoiceovers synthesizes one MP3 per scene that has a voiceover
// script, writing voiceover_scene_<N>.mp3 files into outputDir. A scene
// whose synthesis fails is logged and omitted from the result; it never
// aborts the batch. The returned assets are in scene order.
func (a *AudioSynthesizer) GenerateSceneVoiceovers(ctx context.Context, sb *model.VideoStoryboard, outputDir string) ([]model.AudioAsset, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio output dir: %w", err)
	}

	var assets []model.AudioAsset
	for _, scene := range sb.Scenes {
		script := strings.TrimSpace(scene.VoiceoverScript)
		if script == "" {
			continue
		}

		filename := fmt.Sprintf("voiceover_scene_%d.mp3", scene.SceneNumber)
		log.Printf("[audio] Generating voiceover for Scene %d: %q", scene.SceneNumber, truncateLog(script, 60))

		audio, err := a.tts.Synthesize(ctx, script)
		if err != nil {
			log.Printf("[audio] Warning: failed to generate voiceover for Scene %d: %v", scene.SceneNumber, err)
			continue
		}
		if err := os.WriteFile(filepath.Join(outputDir, filename), audio, 0o644); err != nil {
			log.Printf("[audio] Warning: failed to write voiceover for Scene %d: %v", scene.SceneNumber, err)
			continue
		}

		assets = append(assets, model.AudioAsset{
			SceneNumber:      scene.SceneNumber,
			Filename:         filename,
			DurationEstimate: EstimateSpokenDuration(script),
			Script:           script,
		})
		log.Printf("[audio] Scene %d voiceover saved: %s", scene.SceneNumber, filename)
	}

	return assets, nil
}

// PrepareBackgroundMusic copies a bundled loop matching the requested style
// into outputDir and returns the destination filename. Unknown styles fall
// back to the default; "none" and a missing source file both yield an empty
// name and no copy.
func (a *AudioSynthesizer) PrepareBackgroundMusic(style, outputDir string) string {
	if style == "none" {
		return ""
	}

	source, ok := musicCatalog[style]
	if !ok {
		source = musicCatalog[defaultMusicStyle]
	}
	sourcePath := filepath.Join(a.musicDir, source)

	if !fileExists(sourcePath) {
		log.Printf("[audio] Warning: music file not found: %s", sourcePath)
		return ""
	}
	if err := copyFile(sourcePath, filepath.Join(outputDir, backgroundMusicFile)); err != nil {
		log.Printf("[audio] Warning: could not copy music file: %v", err)
		return ""
	}

	log.Printf("[audio] Background music (%s) copied: %s", style, backgroundMusicFile)
	return backgroundMusicFile
}

// EstimateSpokenDuration estimates seconds of speech from word count,
// rounded to one decimal.
func EstimateSpokenDuration(script string) float64 {
	words := len(strings.Fields(script))
	return math.Round(float64(words)/wordsPerSecond*10) / 10
}

func truncateLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
