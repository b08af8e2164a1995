package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
)

// TaskTypeGenerate is the asynq task type for one video generation job.
const TaskTypeGenerate = "video:generate"

// RenderQueue is the single queue render tasks run on. One worker with
// concurrency 1 drains it, so templated renders never overlap in the shared
// project directory.
const RenderQueue = "render"

const jobRetention = 24 * time.Hour

// VideoService owns the job lifecycle from the API's point of view: create a
// job record, hand the work to the queue, answer status queries.
type VideoService struct {
	reg         registry.Registry
	asynqClient *asynq.Client
	mode        model.RenderMode
}

func NewVideoService(reg registry.Registry, asynqClient *asynq.Client, mode model.RenderMode) *VideoService {
	return &VideoService{reg: reg, asynqClient: asynqClient, mode: mode}
}

// Submit registers a new job and enqueues it for processing.
func (s *VideoService) Submit(ctx context.Context, url string) (*model.Job, error) {
	// Short IDs keep output filenames and log lines readable.
	jobID := uuid.NewString()[:8]
	now := time.Now()

	job := &model.Job{
		ID:          jobID,
		URL:         url,
		Mode:        s.mode,
		Status:      model.JobStatusProcessing,
		Stage:       model.StageQueued,
		StageDetail: "Waiting for a render slot",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reg.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	payload, err := json.Marshal(model.GenerateJobPayload{JobID: jobID, URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeGenerate, payload)
	info, err := s.asynqClient.EnqueueContext(ctx, task,
		asynq.Queue(RenderQueue),
		// A failed render is not retried: reruns are expensive and the
		// user can simply submit again.
		asynq.MaxRetry(0),
		asynq.Retention(jobRetention),
	)
	if err != nil {
		if failErr := s.reg.Fail(ctx, jobID, "Could not queue the job"); failErr != nil {
			log.Printf("[video] Failed to mark job %s as failed: %v", jobID, failErr)
		}
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Printf("[video] Job %s queued for %s (task %s)", jobID, url, info.ID)
	return job, nil
}

// GetStatus returns the current job record.
func (s *VideoService) GetStatus(ctx context.Context, jobID string) (*model.Job, error) {
	return s.reg.Get(ctx, jobID)
}
