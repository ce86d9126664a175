package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape emitted by every propshare module.
// Outbox rows store a serialized Envelope; the worker relay republishes it
// verbatim, so fields must stay backward compatible.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAtUTC time.Time       `json:"occurred_at_utc"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

// New builds a versioned envelope with an encoded payload.
func New(eventID string, eventType string, entityType string, entityID string, occurredAt time.Time, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "propshare",
		OccurredAtUTC: occurredAt.UTC(),
		EntityType:    entityType,
		EntityID:      entityID,
		SchemaVersion: 1,
		PartitionKey:  entityID,
		Data:          data,
	}, nil
}
