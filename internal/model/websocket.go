package model

// WebSocket message types pushed to job subscribers.
const (
	WSMessageTypeStage    = "stage"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage is the minimal envelope used for client keep-alive traffic.
type WSMessage struct {
	Type string `json:"type"`
}

// WSStageMessage is broadcast on every stage transition.
type WSStageMessage struct {
	Type        string    `json:"type"`
	JobID       string    `json:"jobId"`
	Status      JobStatus `json:"status"`
	Stage       JobStage  `json:"stage"`
	StageDetail string    `json:"stageDetail,omitempty"`
}

// WSCompleteMessage is broadcast once a video is ready.
type WSCompleteMessage struct {
	Type      string `json:"type"`
	JobID     string `json:"jobId"`
	VideoPath string `json:"videoPath"`
}

// WSErrorMessage is broadcast when a job fails.
type WSErrorMessage struct {
	Type    string `json:"type"`
	JobID   string `json:"jobId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
