package queue

import (
	"context"
	"time"
)

var SegmentChangeTopic = "segment:change:queue"

// SegmentChange is the event emitted after a committed segment mutation.
// Background consumers (QA scans, AI translation) react to these instead of
// polling the store.
type SegmentChange struct {
	SegmentID string    `json:"segmentId"`
	FileID    string    `json:"fileId"`
	ProjectID string    `json:"projectId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SegmentQueue interface {
	// PublishChange appends a segment change to the queue.
	PublishChange(ctx context.Context, change *SegmentChange) error
	// Close flushes and releases the queue.
	Close() error
}
