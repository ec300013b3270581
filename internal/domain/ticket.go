package domain

import (
	"encoding/json"
	"time"
)

// TicketStatus enumerates statuses the extension reports. Stored values are
// free text; these constants cover the dashboard's known set.
type TicketStatus string

const (
	TicketStatusOpen             TicketStatus = "Open"
	TicketStatusPending          TicketStatus = "Pending"
	TicketStatusInProgress       TicketStatus = "In progress"
	TicketStatusAwaitingResponse TicketStatus = "Awaiting Response"
	TicketStatusResolved         TicketStatus = "Resolved"
	TicketStatusClosed           TicketStatus = "Closed"
)

// IssueCategory enumerates the dashboard's reporting categories.
type IssueCategory string

const (
	IssueCategoryUncategorized IssueCategory = "Uncategorized"
	IssueCategoryDNS           IssueCategory = "DNS"
	IssueCategoryEmail         IssueCategory = "Email"
	IssueCategoryServer        IssueCategory = "Server"
	IssueCategoryProduct       IssueCategory = "Product"
	IssueCategoryWebsite       IssueCategory = "Website"
	IssueCategoryDomain        IssueCategory = "Domain"
	IssueCategoryBilling       IssueCategory = "Billing"
	IssueCategoryGeneral       IssueCategory = "General"
)

// Ticket is one day-bucket of a support conversation. ID is either a bare
// external id (legacy rows created before daily bucketing) or a composite
// daily id. Date is the local day key the bucket belongs to, which is
// distinct from CreatedAt. ClientMsgs and AgentMsgs are opaque payloads
// captured by the extension and carried through unchanged.
type Ticket struct {
	ID            string
	Brand         string
	ClientName    string
	Subject       string
	Product       *string
	IssueCategory *string
	TicketURL     *string
	Status        *string
	LastMessage   string
	Date          *string
	ClientMsgs    json.RawMessage
	AgentMsgs     json.RawMessage
	OwnerID       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Owned reports whether the ticket has been claimed by a teammate. An
// unclaimed ticket is visible to everyone.
func (t *Ticket) Owned() bool {
	return t.OwnerID != nil && *t.OwnerID != ""
}

// VisibleTo reports whether userID may see this ticket.
func (t *Ticket) VisibleTo(userID string) bool {
	return !t.Owned() || *t.OwnerID == userID
}
