package dto

import "time"

// NotificationResponse is one inbox entry for the dropdown.
type NotificationResponse struct {
	ID            string    `json:"id"`
	Message       string    `json:"message"`
	TicketID      string    `json:"ticketId"`
	TicketSubject string    `json:"ticketSubject"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NotificationIDsRequest selects notifications for mark-read or delete; an
// empty list means "all".
type NotificationIDsRequest struct {
	IDs []string `json:"ids"`
}
