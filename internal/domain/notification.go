package domain

import "time"

// Notification is an inbox entry for a ticket's owner. Notifications are
// emitted on every reconciled ingestion event with a resolvable owner and
// are intentionally not deduplicated; the unread badge and toast depend on
// that frequency.
type Notification struct {
	ID        string
	UserID    string
	TicketID  string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
