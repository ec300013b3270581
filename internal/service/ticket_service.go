package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/events"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// TicketService serves the dashboard's ticket views and edits. Visibility is
// claim-based: unclaimed tickets are shared, claimed tickets belong to one
// teammate. Foreign-owned tickets are reported as not found rather than
// forbidden so their existence does not leak.
type TicketService struct {
	tickets    repository.TicketRepository
	links      supportlink.Builder
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, links supportlink.Builder, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, links: links, dispatcher: dispatcher}
}

// TicketUpdateInput carries edit-form changes; nil fields are untouched.
type TicketUpdateInput struct {
	Brand         *string
	ClientName    *string
	Subject       *string
	Product       *string
	IssueCategory *string
	TicketURL     *string
	Status        *string
	LastMessage   *string
}

// RestoreInput re-creates a previously deleted ticket row from a client-side
// snapshot.
type RestoreInput struct {
	ID            string
	Brand         string
	ClientName    string
	Subject       string
	Product       string
	IssueCategory string
	TicketURL     string
	Status        string
	LastMessage   string
	Date          string
	ClientMsgs    json.RawMessage
	AgentMsgs     json.RawMessage
	OwnerID       string
}

// ListVisible returns the tickets the user may see, most recently updated
// first.
func (s *TicketService) ListVisible(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListVisibleToUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Get fetches one visible ticket.
func (s *TicketService) Get(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchVisible(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Update applies edit-form changes to a visible ticket.
func (s *TicketService) Update(ctx context.Context, userID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.fetchVisible(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}

	if input.Brand != nil && strings.TrimSpace(*input.Brand) != "" {
		ticket.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.ClientName != nil {
		ticket.ClientName = trimOr(*input.ClientName, "Unknown")
	}
	if input.Subject != nil {
		ticket.Subject = trimOr(*input.Subject, "Untitled")
	}
	if input.Product != nil {
		ticket.Product = optional(*input.Product)
	}
	if input.IssueCategory != nil {
		ticket.IssueCategory = optional(*input.IssueCategory)
	}
	if input.TicketURL != nil {
		ticket.TicketURL = optional(*input.TicketURL)
	}
	if input.Status != nil {
		ticket.Status = optional(*input.Status)
	}
	if input.LastMessage != nil {
		ticket.LastMessage = *input.LastMessage
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Claim assigns an unclaimed ticket to the user.
func (s *TicketService) Claim(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchVisible(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Owned() && *ticket.OwnerID != userID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	ticket.OwnerID = &userID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventTicketClaimed, ticket.ID, events.TicketClaimedPayload{OwnerID: userID})
	return ticket, nil
}

// Delete removes a ticket the user may delete: their own or an unclaimed one.
func (s *TicketService) Delete(ctx context.Context, userID, ticketID string) error {
	if _, err := s.fetchVisible(ctx, userID, ticketID); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventTicketDeleted, ticketID, events.TicketDeletedPayload{DeletedBy: userID})
	return nil
}

// Restore re-creates a deleted ticket from the caller's snapshot. Restoring
// another teammate's ticket is forbidden; an unowned snapshot is claimed by
// the restorer.
func (s *TicketService) Restore(ctx context.Context, userID string, input RestoreInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperrors.NewValidationError("missing ticket", nil)
	}
	if owner := strings.TrimSpace(input.OwnerID); owner != "" && owner != userID {
		return nil, apperrors.NewForbidden("ticket belongs to another user")
	}

	ticket := &domain.Ticket{
		ID:            strings.TrimSpace(input.ID),
		Brand:         trimOr(input.Brand, "Unknown"),
		ClientName:    trimOr(input.ClientName, "Unknown"),
		Subject:       trimOr(input.Subject, "Untitled"),
		Product:       optional(input.Product),
		IssueCategory: optional(input.IssueCategory),
		TicketURL:     optional(input.TicketURL),
		Status:        optional(input.Status),
		LastMessage:   input.LastMessage,
		Date:          optional(input.Date),
		ClientMsgs:    input.ClientMsgs,
		AgentMsgs:     input.AgentMsgs,
		OwnerID:       &userID,
	}
	if ticket.Status == nil {
		status := string(domain.TicketStatusOpen)
		ticket.Status = &status
	}
	if ticket.TicketURL == nil {
		url := s.links.LinkFor(ticket.ID)
		ticket.TicketURL = &url
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrBucketConflict) {
			return nil, apperrors.NewConflict("ticket already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) fetchVisible(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !ticket.VisibleTo(userID) {
		// Deliberately indistinguishable from a missing row.
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		BaseID:    ticketid.StripDailySuffix(ticketID),
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
