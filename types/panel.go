package types

import "time"

// Notice 最近一次面向用户的提示
type Notice struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type PanelSnapshot struct {
	ID          string             `json:"id"`
	Text        string             `json:"text"`
	QRURL       string             `json:"qr_url,omitempty"`
	Scan        ScanSnapshot       `json:"scan"`
	Image       *ImageInfo         `json:"image,omitempty"`
	Dragging    bool               `json:"dragging"`
	Handle      string             `json:"handle"`
	HandleValid bool               `json:"handle_valid"`
	Submission  SubmissionSnapshot `json:"submission"`
	Notice      *Notice            `json:"notice,omitempty"`
	Closed      bool               `json:"closed,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

const (
	EventSnapshot = "snapshot"
	EventClosed   = "closed"
)

// PanelEvent 推送给 websocket 订阅者
type PanelEvent struct {
	Event string        `json:"event"`
	Panel PanelSnapshot `json:"panel"`
}
