package profile

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeTagExtraction is the only event type the core emits: one per
// applied observation batch.
const EventTypeTagExtraction = "tag_extraction"

// TimelineEvent is an immutable audit record of one update cycle. The
// timeline is write-only from the engine's perspective — nothing in the
// scoring path reads it back.
type TimelineEvent struct {
	ID            string                   `json:"id"`
	Timestamp     string                   `json:"timestamp"`
	EventType     string                   `json:"event_type"`
	ExtractedTags map[string][]Observation `json:"extracted_tags"`
}

// NewTimelineEvent records an observation batch as submitted, including
// categories the taxonomy rejected.
func NewTimelineEvent(batch map[string][]Observation, now time.Time) TimelineEvent {
	if batch == nil {
		batch = map[string][]Observation{}
	}
	return TimelineEvent{
		ID:            uuid.NewString(),
		Timestamp:     FormatTime(now),
		EventType:     EventTypeTagExtraction,
		ExtractedTags: batch,
	}
}
