// Package registry owns job state. Render drivers and workers hold only a
// job ID and call back into a Registry to record progress; the HTTP layer
// reads from the same Registry. Implementations differ only in where the
// records live (process memory or Redis).
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/motionforge/api/internal/model"
)

var (
	// ErrNotFound is returned for unknown job IDs.
	ErrNotFound = errors.New("job not found")
	// ErrTerminal is returned when mutating a completed or failed job.
	ErrTerminal = errors.New("job already in terminal state")
)

// Registry tracks every job for the life of the process. Jobs are never
// evicted here; the Redis implementation applies a retention TTL instead.
type Registry interface {
	Create(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id string) (*model.Job, error)
	// SetStage advances the job to a named stage. Stages only move forward
	// within the job's mode; terminal jobs reject all writes.
	SetStage(ctx context.Context, id string, stage model.JobStage, detail string) error
	// SetDetail updates only the free-form progress note.
	SetDetail(ctx context.Context, id string, detail string) error
	Complete(ctx context.Context, id, videoPath, message string) error
	Fail(ctx context.Context, id, message string) error
}

// applyStage mutates job in place after checking the transition is legal.
func applyStage(job *model.Job, stage model.JobStage, detail string) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	next := model.StageIndex(job.Mode, stage)
	if next < 0 {
		return fmt.Errorf("stage %q not valid for %s mode", stage, job.Mode)
	}
	if cur := model.StageIndex(job.Mode, job.Stage); cur > next {
		return fmt.Errorf("stage cannot move from %q back to %q", job.Stage, stage)
	}
	job.Stage = stage
	job.StageDetail = detail
	job.UpdatedAt = time.Now()
	return nil
}

func applyDetail(job *model.Job, detail string) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	job.StageDetail = detail
	job.UpdatedAt = time.Now()
	return nil
}

func applyComplete(job *model.Job, videoPath, message string) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	job.Status = model.JobStatusCompleted
	job.Stage = model.StageDone
	job.StageDetail = "Video ready!"
	job.VideoPath = videoPath
	job.Message = message
	job.UpdatedAt = time.Now()
	return nil
}

func applyFail(job *model.Job, message string) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	job.Status = model.JobStatusFailed
	job.Message = message
	job.StageDetail = "Error: " + message
	job.UpdatedAt = time.Now()
	return nil
}
