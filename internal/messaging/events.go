package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// TopicRecordEvents carries every record lifecycle event.
const TopicRecordEvents = "record_events"

// Record event names: "<entity>_<created|updated|deleted>".
const (
	EventClientCreated = "client_created"
	EventClientUpdated = "client_updated"
	EventClientDeleted = "client_deleted"
	EventDoctorCreated = "doctor_created"
	EventDoctorUpdated = "doctor_updated"
	EventDoctorDeleted = "doctor_deleted"
	EventVisitCreated  = "visit_created"
	EventVisitUpdated  = "visit_updated"
	EventVisitDeleted  = "visit_deleted"
)

// RecordEvent describes a change to one record. Record holds the full
// serialized row for created/updated events and is empty for deletions.
type RecordEvent struct {
	Event  string          `json:"event"`
	ID     string          `json:"id"`
	Record json.RawMessage `json:"record,omitempty"`
}

// PublishRecordEvent sends a record event, fire-and-forget: failures are
// logged, never surfaced to the request that triggered them.
func PublishRecordEvent(p Producer, event, id string, record interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var raw json.RawMessage
	if record != nil {
		data, err := json.Marshal(record)
		if err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to marshal record event")
			return
		}
		raw = data
	}

	payload, err := json.Marshal(RecordEvent{Event: event, ID: id, Record: raw})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal record event")
		return
	}

	if err := p.SendMessage(ctx, TopicRecordEvents, []byte(id), payload); err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to send record event")
	}
}
