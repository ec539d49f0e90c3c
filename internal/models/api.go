package models

import "github.com/google/uuid"

// API error response envelope.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WebSocket message types published on the pipeline_updates channel.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StageUpdate struct {
	RunID   uuid.UUID `json:"run_id"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
}

type RunFinished struct {
	RunID  uuid.UUID `json:"run_id"`
	Status string    `json:"status"`
}
