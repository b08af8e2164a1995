package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
)

// Options carries the filesystem and renderer settings shared by both
// drivers.
type Options struct {
	// ProjectDir is the canonical render-capable project. Templated mode
	// renders in place; agentic mode copies it per job.
	ProjectDir string
	// OutputDir is where finished videos are copied for serving.
	OutputDir string
	// CompositionID is the composition the renderer is asked for.
	CompositionID string
}

// TemplatedDriver renders by filling the fixed showcase template: place
// assets, write the props document into the project's config location, run
// the renderer, collect the file. It renders in the canonical project
// directory, so only one templated render may run at a time.
type TemplatedDriver struct {
	opts   Options
	runner Runner
	reg    registry.Registry
	placer *AssetPlacer
}

func NewTemplatedDriver(opts Options, runner Runner, reg registry.Registry, placer *AssetPlacer) *TemplatedDriver {
	return &TemplatedDriver{opts: opts, runner: runner, reg: reg, placer: placer}
}

// Render materializes props into a video and returns the path of the copy in
// the output directory. propsPath is where the props document is persisted
// alongside the outputs; its name determines the video's name.
func (d *TemplatedDriver) Render(ctx context.Context, jobID string, props *model.ShowcaseProps, propsPath string) (string, error) {
	projectDir := d.opts.ProjectDir
	if !dirExists(projectDir) {
		return "", fmt.Errorf("renderable project not found at %s (clone it and run npm install first)", projectDir)
	}

	d.detail(ctx, jobID, "Preparing assets")
	d.placer.PlaceStandardAssets(ctx, projectDir)
	d.placer.Place(ctx, &props.Config, projectDir)

	propsJSON, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode props: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(propsPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(propsPath, propsJSON, 0o644); err != nil {
		return "", fmt.Errorf("write props file: %w", err)
	}

	// The template reads its props from a fixed config location.
	configPath := filepath.Join(projectDir, "src", "configs", "signal.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(configPath, propsJSON, 0o644); err != nil {
		return "", fmt.Errorf("copy props into project: %w", err)
	}
	log.Printf("[templated] Copied props to %s", configPath)

	outputName := OutputNameFromProps(propsPath)
	if err := os.MkdirAll(filepath.Join(projectDir, "out"), 0o755); err != nil {
		return "", err
	}

	args := []string{
		"remotion", "render",
		d.opts.CompositionID,
		"out/" + outputName,
		"--props=" + configPath,
		"--concurrency=1",
	}

	log.Printf("[templated] Starting render -> %s", outputName)
	d.detail(ctx, jobID, "Rendering video")

	exitCode, err := d.runner.Run(ctx, projectDir, "npx", args, func(line string) {
		log.Printf("[templated] %s", line)
		if strings.Contains(line, "Rendered") {
			d.detail(ctx, jobID, strings.TrimSpace(line))
		}
	})
	if err != nil {
		return "", fmt.Errorf("run renderer: %w", err)
	}
	if exitCode != 0 {
		return "", fmt.Errorf("remotion render failed with exit code %d", exitCode)
	}
	log.Printf("[templated] Render finished.")

	localPath := filepath.Join(d.opts.OutputDir, outputName)
	if err := copyFile(filepath.Join(projectDir, "out", outputName), localPath); err != nil {
		return "", fmt.Errorf("collect output: %w", err)
	}

	if info, err := os.Stat(localPath); err == nil {
		log.Printf("[templated] Output: %s (%.2f MB)", localPath, float64(info.Size())/1024/1024)
	}
	return localPath, nil
}

func (d *TemplatedDriver) detail(ctx context.Context, jobID, detail string) {
	if err := d.reg.SetDetail(ctx, jobID, detail); err != nil {
		log.Printf("[templated] Warning: could not record progress for job %s: %v", jobID, err)
	}
}
