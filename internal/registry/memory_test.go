package registry

import (
	"context"
	"testing"
	"time"

	"github.com/motionforge/api/internal/model"
)

func newJob(mode model.RenderMode) *model.Job {
	return &model.Job{
		ID:        "j1",
		URL:       "https://example.com",
		Mode:      mode,
		Status:    model.JobStatusProcessing,
		Stage:     model.StageQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestMemory_GetUnknown(t *testing.T) {
	m := NewMemory()
	if _, err := m.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_StageProgression(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Create(ctx, newJob(model.RenderModeTemplated)); err != nil {
		t.Fatal(err)
	}

	for _, stage := range []model.JobStage{
		model.StageScraping, model.StageAnalyzing, model.StageGenerating, model.StageRendering,
	} {
		if err := m.SetStage(ctx, "j1", stage, "working"); err != nil {
			t.Fatalf("SetStage(%s): %v", stage, err)
		}
	}

	job, err := m.Get(ctx, "j1")
	if err != nil {
		t.Fatal(err)
	}
	if job.Stage != model.StageRendering {
		t.Errorf("expected stage rendering, got %s", job.Stage)
	}
}

func TestMemory_StageCannotMoveBackwards(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Create(ctx, newJob(model.RenderModeTemplated))
	_ = m.SetStage(ctx, "j1", model.StageRendering, "")

	if err := m.SetStage(ctx, "j1", model.StageScraping, ""); err == nil {
		t.Error("expected error moving stage backwards")
	}
}

func TestMemory_AgenticOnlyStagesRejectedInTemplatedMode(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Create(ctx, newJob(model.RenderModeTemplated))

	if err := m.SetStage(ctx, "j1", model.StageStoryboarding, ""); err == nil {
		t.Error("expected error: storyboarding is not a templated stage")
	}
}

func TestMemory_TerminalStateIsSticky(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Create(ctx, newJob(model.RenderModeAgentic))

	if err := m.Complete(ctx, "j1", "/outputs/video_j1.mp4", "Render successful"); err != nil {
		t.Fatal(err)
	}

	if err := m.Fail(ctx, "j1", "late failure"); err != ErrTerminal {
		t.Errorf("expected ErrTerminal on Fail after Complete, got %v", err)
	}
	if err := m.SetStage(ctx, "j1", model.StageRendering, ""); err != ErrTerminal {
		t.Errorf("expected ErrTerminal on SetStage after Complete, got %v", err)
	}

	job, _ := m.Get(ctx, "j1")
	if job.Status != model.JobStatusCompleted {
		t.Errorf("status reverted from terminal: %s", job.Status)
	}
	if job.VideoPath != "/outputs/video_j1.mp4" {
		t.Errorf("unexpected video path: %s", job.VideoPath)
	}
}

func TestMemory_FailRecordsMessageAndDetail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Create(ctx, newJob(model.RenderModeTemplated))
	_ = m.SetStage(ctx, "j1", model.StageScraping, "Scraping website content...")

	if err := m.Fail(ctx, "j1", "Scraping failed: no content"); err != nil {
		t.Fatal(err)
	}

	job, _ := m.Get(ctx, "j1")
	if job.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", job.Status)
	}
	if job.Stage != model.StageScraping {
		t.Errorf("failure should keep last stage reached, got %s", job.Stage)
	}
	if job.Message != "Scraping failed: no content" {
		t.Errorf("unexpected message: %s", job.Message)
	}
	if job.StageDetail != "Error: Scraping failed: no content" {
		t.Errorf("unexpected detail: %s", job.StageDetail)
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Create(ctx, newJob(model.RenderModeTemplated))

	job, _ := m.Get(ctx, "j1")
	job.Status = model.JobStatusFailed

	again, _ := m.Get(ctx, "j1")
	if again.Status != model.JobStatusProcessing {
		t.Error("mutating a Get result leaked into the registry")
	}
}
