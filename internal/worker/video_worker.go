package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
	"github.com/motionforge/api/internal/render"
	"github.com/motionforge/api/internal/websocket"
)

// Director runs the creative calls the pipeline needs.
type Director interface {
	Analyze(ctx context.Context, content *model.ScrapedContent) (*model.AnalystOutput, error)
	Direct(ctx context.Context, title string, analysis *model.AnalystOutput, images []string) (*model.CreativeConfiguration, error)
	Storyboard(ctx context.Context, productName string, analysis *model.AnalystOutput, images []string, description string, features []string) (*model.VideoStoryboard, error)
}

// TemplatedRenderer materializes a showcase configuration into a video.
type TemplatedRenderer interface {
	Render(ctx context.Context, jobID string, props *model.ShowcaseProps, propsPath string) (string, error)
}

// AgenticRenderer stages and executes a coding-agent render.
type AgenticRenderer interface {
	Prepare(ctx context.Context, jobID string, in render.AgenticInput) (*render.AgenticRun, error)
	Execute(ctx context.Context, jobID string, run *render.AgenticRun) (string, error)
}

// VideoWorker processes video generation jobs. It owns the stage
// transitions; the drivers underneath only report free-form detail.
type VideoWorker struct {
	reg       registry.Registry
	scraper   render.Scraper
	director  Director
	templated TemplatedRenderer
	agentic   AgenticRenderer
	hub       *websocket.Hub
	mode      model.RenderMode
	outputDir string
}

func NewVideoWorker(
	reg registry.Registry,
	scraper render.Scraper,
	director Director,
	templated TemplatedRenderer,
	agentic AgenticRenderer,
	hub *websocket.Hub,
	mode model.RenderMode,
	outputDir string,
) *VideoWorker {
	return &VideoWorker{
		reg:       reg,
		scraper:   scraper,
		director:  director,
		templated: templated,
		agentic:   agentic,
		hub:       hub,
		mode:      mode,
		outputDir: outputDir,
	}
}

// ProcessTask handles one video generation task end to end.
func (w *VideoWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.GenerateJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := payload.JobID
	log.Printf("[worker] Starting job %s (%s mode): %s", jobID, w.mode, payload.URL)

	w.setStage(ctx, jobID, model.StageScraping, "Scraping website content")
	content, err := w.scraper.Scrape(ctx, payload.URL)
	if err != nil {
		return w.failJob(ctx, jobID, fmt.Sprintf("Scraping failed: %v", err))
	}
	log.Printf("[worker] Job %s scraped '%s'", jobID, content.Title)

	w.setStage(ctx, jobID, model.StageAnalyzing, "Analyzing the product")
	analysis, err := w.director.Analyze(ctx, content)
	if err != nil {
		return w.failJob(ctx, jobID, fmt.Sprintf("Analysis failed: %v", err))
	}

	var videoPath string
	if w.mode == model.RenderModeAgentic {
		videoPath, err = w.processAgentic(ctx, jobID, content, analysis)
	} else {
		videoPath, err = w.processTemplated(ctx, jobID, content, analysis)
	}
	if err != nil {
		return err
	}

	servePath := "/outputs/" + filepath.Base(videoPath)
	if err := w.reg.Complete(ctx, jobID, servePath, "Render successful"); err != nil {
		log.Printf("[worker] Failed to complete job %s: %v", jobID, err)
		return err
	}
	w.hub.BroadcastComplete(jobID, servePath)
	log.Printf("[worker] Job %s completed: %s", jobID, servePath)
	return nil
}

func (w *VideoWorker) processTemplated(ctx context.Context, jobID string, content *model.ScrapedContent, analysis *model.AnalystOutput) (string, error) {
	w.setStage(ctx, jobID, model.StageGenerating, "Generating creative direction")
	cfg, err := w.director.Direct(ctx, content.Title, analysis, content.Gallery)
	if err != nil {
		return "", w.failJob(ctx, jobID, fmt.Sprintf("Direction failed: %v", err))
	}

	w.setStage(ctx, jobID, model.StageRendering, "Rendering video")
	propsPath := filepath.Join(w.outputDir, render.PropsFileName(jobID))
	videoPath, err := w.templated.Render(ctx, jobID, &model.ShowcaseProps{Config: *cfg}, propsPath)
	if err != nil {
		return "", w.failJob(ctx, jobID, fmt.Sprintf("Render failed: %v", err))
	}
	return videoPath, nil
}

func (w *VideoWorker) processAgentic(ctx context.Context, jobID string, content *model.ScrapedContent, analysis *model.AnalystOutput) (string, error) {
	w.setStage(ctx, jobID, model.StageStoryboarding, "Designing the storyboard")
	sb, err := w.director.Storyboard(ctx, content.Title, analysis, content.Gallery, content.Description, content.Features)
	if err != nil {
		return "", w.failJob(ctx, jobID, fmt.Sprintf("Storyboard failed: %v", err))
	}
	log.Printf("[worker] Job %s storyboard ready: %d scenes", jobID, len(sb.Scenes))

	w.setStage(ctx, jobID, model.StageGeneratingAudio, "Generating voiceovers and music")
	run, err := w.agentic.Prepare(ctx, jobID, render.AgenticInput{
		Content:    content,
		Storyboard: sb,
		OutputName: render.OutputNameFromProps(render.PropsFileName(jobID)),
	})
	if err != nil {
		return "", w.failJob(ctx, jobID, fmt.Sprintf("Render preparation failed: %v", err))
	}

	w.setStage(ctx, jobID, model.StageRendering, "Coding agent is building the video")
	videoPath, err := w.agentic.Execute(ctx, jobID, run)
	if err != nil {
		return "", w.failJob(ctx, jobID, fmt.Sprintf("Render failed: %v", err))
	}
	return videoPath, nil
}

func (w *VideoWorker) setStage(ctx context.Context, jobID string, stage model.JobStage, detail string) {
	if err := w.reg.SetStage(ctx, jobID, stage, detail); err != nil {
		log.Printf("[worker] Failed to set stage %s for job %s: %v", stage, jobID, err)
	}
	w.hub.BroadcastStage(jobID, model.JobStatusProcessing, stage, detail)
}

// failJob marks the job failed and returns an error carrying the same
// message so asynq records the task as failed too.
func (w *VideoWorker) failJob(ctx context.Context, jobID, message string) error {
	if err := w.reg.Fail(ctx, jobID, message); err != nil {
		log.Printf("[worker] Failed to mark job %s as failed: %v", jobID, err)
	}
	w.hub.BroadcastError(jobID, "GENERATE_FAILED", message)
	return fmt.Errorf("job %s: %s", jobID, message)
}
