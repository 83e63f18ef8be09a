package types

import "time"

type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSubmitted  SubmissionState = "submitted"
)

type SubmissionSnapshot struct {
	State        SubmissionState `json:"state"`
	SubmissionID int64           `json:"submission_id,omitempty"`
	Receipt      string          `json:"receipt,omitempty"`
}

type ReceiptResp struct {
	Receipt   string    `json:"receipt"`
	Handle    string    `json:"handle"`
	ImageURL  string    `json:"image_url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}
