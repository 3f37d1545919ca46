// Package events defines the notifications emitted by the pipeline.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every pipeline event.
const Topic = "seo.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	BundlePublishedEvent EventType = "bundle.published"
	StageFailedEvent     EventType = "stage.failed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// BundlePublished is emitted once a result bundle has been stored.
type BundlePublished struct {
	BaseEvent

	BundleID string `json:"bundle_id"`
	Keyword  string `json:"keyword"`
	Title    string `json:"title"`
}

func (e BundlePublished) GetType() EventType {
	return BundlePublishedEvent
}

// StageFailed is emitted when a stage endpoint answers with an error code.
type StageFailed struct {
	BaseEvent

	Endpoint string `json:"endpoint"`
	Code     string `json:"code"`
	Status   int    `json:"status"`
}

func (e StageFailed) GetType() EventType {
	return StageFailedEvent
}

func NewBaseEvent(eventType EventType, requestID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
