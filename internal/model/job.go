package model

import "time"

// RenderMode selects the rendering strategy for the whole process.
type RenderMode string

const (
	RenderModeTemplated RenderMode = "templated"
	RenderModeAgentic   RenderMode = "agentic"
)

// JobStatus is the terminal-state machine for a job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobStage names the pipeline phase a job is currently in. Stages advance
// strictly forward within a mode; the human-readable detail string next to a
// stage is free-form telemetry.
type JobStage string

const (
	StageQueued          JobStage = "queued"
	StageScraping        JobStage = "scraping"
	StageAnalyzing       JobStage = "analyzing"
	StageGenerating      JobStage = "generating"
	StageStoryboarding   JobStage = "storyboarding"
	StageGeneratingAudio JobStage = "generating_audio"
	StageRendering       JobStage = "rendering"
	StageDone            JobStage = "done"
)

var templatedStages = []JobStage{
	StageQueued, StageScraping, StageAnalyzing, StageGenerating,
	StageRendering, StageDone,
}

var agenticStages = []JobStage{
	StageQueued, StageScraping, StageAnalyzing, StageStoryboarding,
	StageGeneratingAudio, StageRendering, StageDone,
}

// StageOrder returns the legal stage progression for a render mode.
func StageOrder(mode RenderMode) []JobStage {
	if mode == RenderModeAgentic {
		return agenticStages
	}
	return templatedStages
}

// StageIndex returns the position of a stage within a mode's progression,
// or -1 if the stage does not belong to that mode.
func StageIndex(mode RenderMode, stage JobStage) int {
	for i, s := range StageOrder(mode) {
		if s == stage {
			return i
		}
	}
	return -1
}

// Job is one end-to-end video generation request.
type Job struct {
	ID          string     `json:"job_id"`
	URL         string     `json:"url"`
	Mode        RenderMode `json:"mode"`
	Status      JobStatus  `json:"status"`
	Stage       JobStage   `json:"stage"`
	StageDetail string     `json:"stage_detail,omitempty"`
	VideoPath   string     `json:"video_path,omitempty"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GenerateJobPayload is the asynq task payload for one job.
type GenerateJobPayload struct {
	JobID string `json:"jobId"`
	URL   string `json:"url"`
}
