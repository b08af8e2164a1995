package model

// GenerateRequest is the submission body: a product website URL.
type GenerateRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// GenerateResponse is returned immediately after a job is registered.
type GenerateResponse struct {
	JobID   string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Message string    `json:"message"`
}

// StatusResponse reports a job's current state to pollers.
type StatusResponse struct {
	JobID       string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Stage       JobStage  `json:"stage,omitempty"`
	StageDetail string    `json:"stage_detail,omitempty"`
	VideoPath   string    `json:"video_path,omitempty"`
	Message     string    `json:"message,omitempty"`
}

// HealthResponse reports liveness and the active render mode.
type HealthResponse struct {
	Status     string     `json:"status"`
	RenderMode RenderMode `json:"render_mode"`
}
