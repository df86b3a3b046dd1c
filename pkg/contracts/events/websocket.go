// Package events contains the websocket event contracts broadcast while an
// upload is parsed and classified.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeUploadParsed      MessageType = "upload:parsed"
	MessageTypeUploadClassifying MessageType = "upload:classifying"
	MessageTypeUploadClassified  MessageType = "upload:classified"
	MessageTypeUploadFailed      MessageType = "upload:failed"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data any `json:"data,omitempty"`
}

// UploadProgress is the payload of every upload:* event.
type UploadProgress struct {
	RequestID       string `json:"requestId"`
	FileName        string `json:"fileName,omitempty"`
	TotalRows       int    `json:"totalRows"`
	ValidRows       int    `json:"validRows"`
	InvalidRows     int    `json:"invalidRows"`
	Classifications int    `json:"classifications,omitempty"`
	DurationMs      int64  `json:"durationMs,omitempty"`
	Error           string `json:"error,omitempty"`
}

// NewMessage stamps a message of type t with the current time.
func NewMessage(t MessageType, traceID string, data any) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			Type:      t,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	}
}
