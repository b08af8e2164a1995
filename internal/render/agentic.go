package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
)

// agentExitGrace is added on top of the agent's own timeout before the
// context kills the subprocess, so the agent's internal timeout fires first.
const agentExitGrace = 60 * time.Second

// Scraper fetches structured content from a product website.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.ScrapedContent, error)
}

// CreativeDirector produces the analysis and storyboard the agentic driver
// falls back to when the worker hands it neither.
type CreativeDirector interface {
	Analyze(ctx context.Context, content *model.ScrapedContent) (*model.AnalystOutput, error)
	Storyboard(ctx context.Context, productName string, analysis *model.AnalystOutput, images []string, description string, features []string) (*model.VideoStoryboard, error)
}

// AgenticInput is everything a job brings to an agentic render. Storyboard
// is usually set by the worker; when it is nil the driver derives one from
// Content, or from URL as a last resort.
type AgenticInput struct {
	URL        string
	Content    *model.ScrapedContent
	Storyboard *model.VideoStoryboard
	OutputName string
}

// AgenticDriver renders by handing a storyboard brief to an autonomous
// coding agent inside a disposable copy of the renderable project. The agent
// has full creative freedom; the driver only prepares the workspace, stages
// media, and collects whatever video comes out.
type AgenticDriver struct {
	opts         Options
	agentTimeout time.Duration
	runner       Runner
	reg          registry.Registry
	workspaces   *WorkspaceManager
	audio        *AudioSynthesizer
	scraper      Scraper
	director     CreativeDirector
}

func NewAgenticDriver(
	opts Options,
	agentTimeout time.Duration,
	runner Runner,
	reg registry.Registry,
	workspaces *WorkspaceManager,
	audio *AudioSynthesizer,
	scraper Scraper,
	director CreativeDirector,
) *AgenticDriver {
	return &AgenticDriver{
		opts:         opts,
		agentTimeout: agentTimeout,
		runner:       runner,
		reg:          reg,
		workspaces:   workspaces,
		audio:        audio,
		scraper:      scraper,
		director:     director,
	}
}

// AgenticRun is a prepared workspace waiting for its agent pass. Prepare
// builds it; Execute consumes it and tears the workspace down.
type AgenticRun struct {
	ws         *Workspace
	outputName string
}

// Render runs one agentic job end to end and returns the path of the video
// in the output directory.
func (d *AgenticDriver) Render(ctx context.Context, jobID string, in AgenticInput) (string, error) {
	run, err := d.Prepare(ctx, jobID, in)
	if err != nil {
		return "", err
	}
	return d.Execute(ctx, jobID, run)
}

// Prepare stages everything the agent needs: a fresh workspace, a
// storyboard, the generated audio, and the brief. On error the workspace is
// cleaned up before returning.
func (d *AgenticDriver) Prepare(ctx context.Context, jobID string, in AgenticInput) (*AgenticRun, error) {
	sb, err := d.ensureStoryboard(ctx, jobID, in)
	if err != nil {
		return nil, err
	}

	ws, err := d.workspaces.Create(jobID)
	if err != nil {
		return nil, err
	}

	// Audio is additive: a silent video still ships.
	var audioAssets []model.AudioAsset
	musicFile := ""
	d.detail(ctx, jobID, "Generating voiceovers")
	audioAssets, err = d.audio.GenerateSceneVoiceovers(ctx, sb, ws.PublicDir())
	if err != nil {
		log.Printf("[agentic] Warning: audio generation failed, continuing without audio: %v", err)
		audioAssets = nil
	} else {
		musicFile = d.audio.PrepareBackgroundMusic(sb.BackgroundMusicStyle, ws.PublicDir())
	}

	brief := BuildBrief(sb, in.OutputName, audioAssets, musicFile)
	if err := os.WriteFile(ws.BriefPath(), []byte(brief), 0o644); err != nil {
		d.workspaces.Cleanup(ws)
		return nil, fmt.Errorf("write brief: %w", err)
	}
	log.Printf("[agentic] Brief written to %s", ws.BriefPath())

	return &AgenticRun{ws: ws, outputName: in.OutputName}, nil
}

// Execute invokes the coding agent over a prepared run and collects the
// rendered video into the output directory. The workspace is cleaned up
// regardless of outcome.
func (d *AgenticDriver) Execute(ctx context.Context, jobID string, run *AgenticRun) (string, error) {
	defer d.workspaces.Cleanup(run.ws)

	log.Printf("[agentic] Invoking coding agent for render -> %s", run.outputName)
	log.Printf("[agentic] Working directory: %s", run.ws.Dir)
	d.detail(ctx, jobID, "Coding agent is building the video")

	args := []string{
		"-y",
		"--timeout", strconv.Itoa(int(d.agentTimeout.Seconds())),
		AgentTaskPrompt,
	}

	runCtx, cancel := context.WithTimeout(ctx, d.agentTimeout+agentExitGrace)
	defer cancel()

	exitCode, err := d.runner.Run(runCtx, run.ws.Dir, "cline", args, func(line string) {
		log.Printf("[agentic] %s", line)
	})
	if err != nil {
		return "", fmt.Errorf("run coding agent: %w", err)
	}
	if exitCode != 0 {
		// The agent often exits nonzero after a successful render, so this
		// is only fatal if no video turns up below.
		log.Printf("[agentic] Warning: coding agent exited with code %d", exitCode)
	}

	rendered, err := d.findOutput(run.ws.OutDir(), run.outputName)
	if err != nil {
		return "", err
	}

	localPath := filepath.Join(d.opts.OutputDir, run.outputName)
	if err := copyFile(rendered, localPath); err != nil {
		return "", fmt.Errorf("collect output: %w", err)
	}

	if info, err := os.Stat(localPath); err == nil {
		log.Printf("[agentic] Output: %s (%.2f MB)", localPath, float64(info.Size())/1024/1024)
	}
	return localPath, nil
}

// ensureStoryboard returns the input storyboard, or reconstructs one by
// running the creative pipeline inline when a caller hands the driver raw
// content or just a URL.
func (d *AgenticDriver) ensureStoryboard(ctx context.Context, jobID string, in AgenticInput) (*model.VideoStoryboard, error) {
	if in.Storyboard != nil {
		return in.Storyboard, nil
	}

	content := in.Content
	if content == nil {
		if in.URL == "" {
			return nil, errors.New("agentic render requires a URL, scraped content, or storyboard")
		}
		log.Printf("[agentic] Scraping %s", in.URL)
		d.detail(ctx, jobID, "Scraping website")
		var err error
		content, err = d.scraper.Scrape(ctx, in.URL)
		if err != nil {
			return nil, fmt.Errorf("scrape %s: %w", in.URL, err)
		}
	}

	log.Printf("[agentic] Running analyst")
	d.detail(ctx, jobID, "Analyzing product")
	analysis, err := d.director.Analyze(ctx, content)
	if err != nil {
		return nil, err
	}

	log.Printf("[agentic] Running creative director")
	d.detail(ctx, jobID, "Designing storyboard")
	sb, err := d.director.Storyboard(ctx, content.Title, analysis, content.Gallery, content.Description, content.Features)
	if err != nil {
		return nil, err
	}
	log.Printf("[agentic] Storyboard ready: %d scenes", len(sb.Scenes))
	return sb, nil
}

// findOutput locates the rendered video: the expected name if the agent
// followed the brief, otherwise the newest .mp4 in the output directory.
func (d *AgenticDriver) findOutput(outDir, outputName string) (string, error) {
	expected := filepath.Join(outDir, outputName)
	if fileExists(expected) {
		return expected, nil
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("output directory not found: %s", outDir)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var mp4s []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp4") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mp4s = append(mp4s, candidate{
			path:    filepath.Join(outDir, e.Name()),
			modTime: info.ModTime(),
		})
	}
	if len(mp4s) == 0 {
		return "", fmt.Errorf("no .mp4 files found in %s", outDir)
	}

	sort.Slice(mp4s, func(i, j int) bool { return mp4s[i].modTime.After(mp4s[j].modTime) })
	log.Printf("[agentic] Found output: %s", mp4s[0].path)
	return mp4s[0].path, nil
}

func (d *AgenticDriver) detail(ctx context.Context, jobID, detail string) {
	if err := d.reg.SetDetail(ctx, jobID, detail); err != nil {
		log.Printf("[agentic] Warning: could not record progress for job %s: %v", jobID, err)
	}
}
