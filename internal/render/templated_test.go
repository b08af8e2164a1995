package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
)

// fakeRunner records the command and simulates the subprocess by running
// onRun in the working directory before returning.
type fakeRunner struct {
	exitCode int
	err      error
	onRun    func(dir string)

	dir  string
	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args []string, onLine func(string)) (int, error) {
	f.dir, f.name, f.args = dir, name, args
	if onLine != nil {
		onLine("Rendered 1/540 frames")
	}
	if f.onRun != nil {
		f.onRun(dir)
	}
	return f.exitCode, f.err
}

func showcaseProps() *model.ShowcaseProps {
	return &model.ShowcaseProps{Config: model.CreativeConfiguration{
		Product: model.Product{Name: "ACME"},
		Screenshots: []model.Screenshot{
			{Src: "already-local.png"},
		},
	}}
}

func newTemplatedDriver(t *testing.T, runner Runner) (*TemplatedDriver, Options, *registry.Memory) {
	t.Helper()
	opts := Options{
		ProjectDir:    newTestProject(t),
		OutputDir:     t.TempDir(),
		CompositionID: "PromoVideo",
	}
	reg := registry.NewMemory()
	if err := reg.Create(context.Background(), &model.Job{ID: "abc12345", Mode: model.RenderModeTemplated}); err != nil {
		t.Fatal(err)
	}
	return NewTemplatedDriver(opts, runner, reg, NewAssetPlacer()), opts, reg
}

func TestTemplatedRender(t *testing.T) {
	runner := &fakeRunner{onRun: func(dir string) {
		if err := os.WriteFile(filepath.Join(dir, "out", "video_abc12345.mp4"), []byte("mp4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}}
	driver, opts, _ := newTemplatedDriver(t, runner)

	// The screenshot src must survive placement: it is an unreachable
	// local-looking name, so seed the file to exercise the no-op path.
	seeded := filepath.Join(opts.ProjectDir, "public", "already-local.png")
	if err := os.MkdirAll(filepath.Dir(seeded), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(seeded, tinyPNG, 0o644); err != nil {
		t.Fatal(err)
	}

	propsPath := filepath.Join(t.TempDir(), PropsFileName("abc12345"))
	got, err := driver.Render(context.Background(), "abc12345", showcaseProps(), propsPath)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := filepath.Join(opts.OutputDir, "video_abc12345.mp4")
	if got != want {
		t.Fatalf("Render returned %q, want %q", got, want)
	}
	if !fileExists(want) {
		t.Fatal("output not copied into output dir")
	}

	if runner.name != "npx" {
		t.Fatalf("unexpected command: %s", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	for _, frag := range []string{"remotion render", "PromoVideo", "out/video_abc12345.mp4", "--concurrency=1"} {
		if !strings.Contains(joined, frag) {
			t.Errorf("render command missing %q: %s", frag, joined)
		}
	}
	if runner.dir != opts.ProjectDir {
		t.Fatalf("renderer ran in %q, want project dir", runner.dir)
	}

	// Props must land in the template's config location with local srcs.
	configPath := filepath.Join(opts.ProjectDir, "src", "configs", "signal.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("props not copied into project: %v", err)
	}
	var placed model.ShowcaseProps
	if err := json.Unmarshal(data, &placed); err != nil {
		t.Fatalf("invalid props JSON: %v", err)
	}
	if placed.Config.Screenshots[0].Src != "already-local.png" {
		t.Fatalf("placed src = %q", placed.Config.Screenshots[0].Src)
	}
}

func TestTemplatedRenderFailsOnNonzeroExit(t *testing.T) {
	driver, _, _ := newTemplatedDriver(t, &fakeRunner{exitCode: 1})

	propsPath := filepath.Join(t.TempDir(), PropsFileName("abc12345"))
	_, err := driver.Render(context.Background(), "abc12345", showcaseProps(), propsPath)
	if err == nil || !strings.Contains(err.Error(), "exit code 1") {
		t.Fatalf("expected exit-code error, got %v", err)
	}
}

func TestTemplatedRenderMissingProject(t *testing.T) {
	opts := Options{
		ProjectDir:    filepath.Join(t.TempDir(), "nope"),
		OutputDir:     t.TempDir(),
		CompositionID: "PromoVideo",
	}
	driver := NewTemplatedDriver(opts, &fakeRunner{}, registry.NewMemory(), NewAssetPlacer())

	_, err := driver.Render(context.Background(), "abc12345", showcaseProps(), PropsFileName("abc12345"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing-project error, got %v", err)
	}
}
