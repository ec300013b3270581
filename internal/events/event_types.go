package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketBucketCreated EventType = "ticket_bucket_created"
	EventTicketIngested      EventType = "ticket_ingested"
	EventTicketClaimed       EventType = "ticket_claimed"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services. TicketID carries the
// storage (possibly composite) id; BaseID the stripped external id.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	BaseID    string      `json:"base_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketIngestedPayload payload.
type TicketIngestedPayload struct {
	DayKey      string  `json:"day_key"`
	Brand       string  `json:"brand"`
	Status      *string `json:"status,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
	BucketIsNew bool    `json:"bucket_is_new"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	DeletedBy string `json:"deleted_by"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	OwnerID string `json:"owner_id"`
}
