package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/motionforge/api/internal/model"
)

type fakeTTS struct {
	failOn map[string]bool
	calls  []string
}

func (f *fakeTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.calls = append(f.calls, text)
	if f.failOn[text] {
		return nil, errors.New("voice service unavailable")
	}
	return []byte("ID3 fake mp3 bytes"), nil
}

func storyboardWithScripts(scripts ...string) *model.VideoStoryboard {
	sb := &model.VideoStoryboard{}
	for i, s := range scripts {
		sb.Scenes = append(sb.Scenes, model.SceneDescription{
			SceneNumber:     i + 1,
			VoiceoverScript: s,
		})
	}
	return sb
}

func TestGenerateSceneVoiceovers(t *testing.T) {
	dir := t.TempDir()
	tts := &fakeTTS{}
	synth := NewAudioSynthesizer(tts, "")

	assets, err := synth.GenerateSceneVoiceovers(context.Background(),
		storyboardWithScripts("First scene.", "Second scene."), dir)
	if err != nil {
		t.Fatalf("GenerateSceneVoiceovers: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	for i, a := range assets {
		if a.SceneNumber != i+1 {
			t.Errorf("asset %d has scene number %d", i, a.SceneNumber)
		}
		if !fileExists(filepath.Join(dir, a.Filename)) {
			t.Errorf("voiceover file %s not written", a.Filename)
		}
	}
	if assets[0].Filename != "voiceover_scene_1.mp3" {
		t.Fatalf("unexpected filename: %q", assets[0].Filename)
	}
}

func TestGenerateSceneVoiceoversSkipsEmptyScripts(t *testing.T) {
	dir := t.TempDir()
	tts := &fakeTTS{}
	synth := NewAudioSynthesizer(tts, "")

	assets, err := synth.GenerateSceneVoiceovers(context.Background(),
		storyboardWithScripts("Spoken.", "", "   "), dir)
	if err != nil {
		t.Fatalf("GenerateSceneVoiceovers: %v", err)
	}
	if len(assets) != 1 || assets[0].SceneNumber != 1 {
		t.Fatalf("expected only scene 1, got %+v", assets)
	}
	if len(tts.calls) != 1 {
		t.Fatalf("synthesizer called %d times for empty scripts", len(tts.calls))
	}
}

func TestGenerateSceneVoiceoversToleratesPerSceneFailure(t *testing.T) {
	dir := t.TempDir()
	tts := &fakeTTS{failOn: map[string]bool{"Broken scene.": true}}
	synth := NewAudioSynthesizer(tts, "")

	assets, err := synth.GenerateSceneVoiceovers(context.Background(),
		storyboardWithScripts("Good scene.", "Broken scene.", "Also good."), dir)
	if err != nil {
		t.Fatalf("a single scene failure must not abort the batch: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].SceneNumber != 1 || assets[1].SceneNumber != 3 {
		t.Fatalf("wrong scenes survived: %+v", assets)
	}
}

func TestPrepareBackgroundMusic(t *testing.T) {
	musicDir := t.TempDir()
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(musicDir, "background_upbeat.mp3"), []byte("mp3"), 0o644); err != nil {
		t.Fatal(err)
	}
	synth := NewAudioSynthesizer(&fakeTTS{}, musicDir)

	if got := synth.PrepareBackgroundMusic("upbeat", outDir); got != backgroundMusicFile {
		t.Fatalf("PrepareBackgroundMusic(upbeat) = %q", got)
	}
	if !fileExists(filepath.Join(outDir, backgroundMusicFile)) {
		t.Fatal("music file not copied")
	}

	// Unknown styles fall back to the default loop.
	if got := synth.PrepareBackgroundMusic("polka", t.TempDir()); got != backgroundMusicFile {
		t.Fatalf("unknown style should use default, got %q", got)
	}
}

func TestPrepareBackgroundMusicNoneAndMissing(t *testing.T) {
	synth := NewAudioSynthesizer(&fakeTTS{}, t.TempDir())

	if got := synth.PrepareBackgroundMusic("none", t.TempDir()); got != "" {
		t.Fatalf("style none must yield no music, got %q", got)
	}
	// Catalog file missing on disk: non-fatal, no music.
	if got := synth.PrepareBackgroundMusic("calm", t.TempDir()); got != "" {
		t.Fatalf("missing loop must yield no music, got %q", got)
	}
}

func TestEstimateSpokenDuration(t *testing.T) {
	cases := []struct {
		script string
		want   float64
	}{
		{"", 0},
		{"one two three four five", 2},
		{"a b c d e f g", 2.8},
	}
	for _, c := range cases {
		if got := EstimateSpokenDuration(c.script); got != c.want {
			t.Errorf("EstimateSpokenDuration(%q) = %v, want %v", c.script, got, c.want)
		}
	}
}
