// Package queue defines message payloads exchanged over the message broker.
package queue

// RequestCreatedEvent is published when a maintenance request is opened.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type RequestCreatedEvent struct {
	RequestID   uint64 `json:"request_id"`
	Subject     string `json:"subject"`
	Scope       string `json:"scope"`
	TargetID    uint64 `json:"target_id"` // equipment or work center id, per scope
	CreatedByID uint64 `json:"created_by_id"`
	Priority    string `json:"priority"`
	Stage       string `json:"stage"`
	RequestedAt string `json:"requested_at"`
}
