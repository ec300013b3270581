package dto

import (
	"encoding/json"
	"time"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
)

// TicketResponse is the API shape of a ticket row. ID is the storage id used
// as the API handle; DisplayID is the stripped base id for rendering and
// SupportURL the outbound deep link — composite ids never reach the UI.
type TicketResponse struct {
	ID            string          `json:"id"`
	DisplayID     string          `json:"displayId"`
	Brand         string          `json:"brand"`
	ClientName    string          `json:"clientName"`
	Subject       string          `json:"subject"`
	Product       *string         `json:"product"`
	IssueCategory *string         `json:"issueCategory"`
	TicketURL     *string         `json:"ticketUrl"`
	SupportURL    string          `json:"supportUrl"`
	Status        *string         `json:"status"`
	LastMessage   string          `json:"lastMessage"`
	Date          *string         `json:"date"`
	ClientMsgs    json.RawMessage `json:"clientMsgs"`
	AgentMsgs     json.RawMessage `json:"agentMsgs"`
	OwnerID       *string         `json:"ownerId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewTicketResponse maps a domain ticket to its API shape.
func NewTicketResponse(ticket *domain.Ticket, links supportlink.Builder) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		DisplayID:     ticketid.StripDailySuffix(ticket.ID),
		Brand:         ticket.Brand,
		ClientName:    ticket.ClientName,
		Subject:       ticket.Subject,
		Product:       ticket.Product,
		IssueCategory: ticket.IssueCategory,
		TicketURL:     ticket.TicketURL,
		SupportURL:    links.LinkFor(ticket.ID),
		Status:        ticket.Status,
		LastMessage:   ticket.LastMessage,
		Date:          ticket.Date,
		ClientMsgs:    ticket.ClientMsgs,
		AgentMsgs:     ticket.AgentMsgs,
		OwnerID:       ticket.OwnerID,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

// UpdateTicketRequest carries edit-form changes; absent fields are untouched.
type UpdateTicketRequest struct {
	Brand         *string `json:"brand"`
	ClientName    *string `json:"clientName"`
	Subject       *string `json:"subject"`
	Product       *string `json:"product"`
	IssueCategory *string `json:"issueCategory"`
	TicketURL     *string `json:"ticketUrl"`
	Status        *string `json:"status"`
	LastMessage   *string `json:"lastMessage"`
}

// RestoreTicketRequest re-creates a deleted ticket from a client snapshot.
type RestoreTicketRequest struct {
	Ticket *RestoreTicketPayload `json:"ticket"`
}

// RestoreTicketPayload is the snapshot itself.
type RestoreTicketPayload struct {
	ID            string          `json:"id"`
	Brand         string          `json:"brand"`
	ClientName    string          `json:"clientName"`
	Subject       string          `json:"subject"`
	Product       string          `json:"product"`
	IssueCategory string          `json:"issueCategory"`
	TicketURL     string          `json:"ticketUrl"`
	Status        string          `json:"status"`
	LastMessage   string          `json:"lastMessage"`
	Date          string          `json:"date"`
	ClientMsgs    json.RawMessage `json:"clientMsgs"`
	AgentMsgs     json.RawMessage `json:"agentMsgs"`
	OwnerID       string          `json:"ownerId"`
}

// BrandCountResponse is one slice of the brand donut.
type BrandCountResponse struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// CategoryCountResponse is one bar of the issue comparison.
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DayCountResponse is one timeline point.
type DayCountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// LeaderboardEntryResponse is one leaderboard row.
type LeaderboardEntryResponse struct {
	OwnerID   string  `json:"ownerId"`
	OwnerName string  `json:"ownerName"`
	AvatarURL *string `json:"avatarUrl"`
	Count     int64   `json:"count"`
}
