package dto

import "encoding/json"

// IngestTicketRequest is the payload the browser extension POSTs for every
// observed ticket activity. Field names mirror what the extension captures.
type IngestTicketRequest struct {
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
	OwnerEmail    string          `json:"ownerEmail"`
	OwnerID       string          `json:"ownerId"`
}

// IngestTicketResponse wraps the persisted row.
type IngestTicketResponse struct {
	Success bool           `json:"success"`
	Ticket  TicketResponse `json:"ticket"`
}
