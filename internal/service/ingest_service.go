package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/events"
	"github.com/worldhost-group/support-dashboard/internal/observability"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

const notificationMaxLen = 280

// IngestInput is one ticket-activity event from the extension. Optional
// string fields use the empty string (after trimming) to mean "absent";
// absent values never overwrite stored ones.
type IngestInput struct {
	BaseID        string
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
	OwnerEmail    string
	OwnerID       string
}

// IngestService reconciles incoming ticket activity into day buckets: one
// stored row per base ticket id per local dashboard day.
type IngestService struct {
	tickets       repository.TicketRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	clock         ticketid.Clock
	links         supportlink.Builder
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// IngestDependencies bundles collaborators for the reconciler.
type IngestDependencies struct {
	TicketRepo       repository.TicketRepository
	UserRepo         repository.UserRepository
	NotificationRepo repository.NotificationRepository
	Clock            ticketid.Clock
	Links            supportlink.Builder
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	Now              func() time.Time
}

// NewIngestService constructs the reconciler.
func NewIngestService(deps IngestDependencies) *IngestService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		tickets:       deps.TicketRepo,
		users:         deps.UserRepo,
		notifications: deps.NotificationRepo,
		clock:         deps.Clock,
		links:         deps.Links,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		now:           now,
	}
}

// Ingest applies one activity event durably and returns the persisted row.
// The ticket write is authoritative; the notification write is best-effort
// and never fails the call.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*domain.Ticket, error) {
	baseID := strings.TrimSpace(input.BaseID)
	brand := strings.TrimSpace(input.Brand)
	if baseID == "" || brand == "" {
		return nil, apperrors.NewValidationError("id and brand are required", nil)
	}

	ref := ticketid.ResolveReferenceTime(input.Date, s.now)
	dayKey := s.clock.DayKey(ref)
	dailyID := s.clock.BuildDailyID(baseID, ref)
	start, end := s.clock.DayBounds(ref)

	owner, err := s.resolveOwner(ctx, input)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	existing, err := s.findBucket(ctx, baseID, dailyID, dayKey, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if existing != nil {
		ticket, err := s.applyUpdate(ctx, existing, input, brand, dayKey, owner)
		if err != nil {
			return nil, err
		}
		s.afterWrite(ctx, ticket, input, owner, false)
		return ticket, nil
	}

	ticket, err := s.createBucket(ctx, dailyID, input, brand, dayKey, owner)
	if err == nil {
		s.afterWrite(ctx, ticket, input, owner, true)
		return ticket, nil
	}
	if !errors.Is(err, repository.ErrBucketConflict) {
		return nil, apperrors.MapError(err)
	}

	// Lost the bucket race to a concurrent create; converge by re-reading
	// the winner and applying this event as an update.
	existing, lookupErr := s.findBucket(ctx, baseID, dailyID, dayKey, start, end)
	if lookupErr != nil {
		return nil, apperrors.MapError(lookupErr)
	}
	if existing == nil {
		return nil, apperrors.NewConflict("ticket bucket contention", nil)
	}
	ticket, err = s.applyUpdate(ctx, existing, input, brand, dayKey, owner)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, ticket, input, owner, false)
	return ticket, nil
}

// findBucket locates the row for (baseID, day). The created_at window covers
// rows written on the day itself; a replayed or backdated event lands on a row
// whose created_at lies outside the hinted day, so fall back to the ids. The
// composite id already encodes the day; a bare legacy id counts only when its
// date column names the same day. Returns nil without error when no row exists.
func (s *IngestService) findBucket(ctx context.Context, baseID, dailyID, dayKey string, start, end time.Time) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindDayBucket(ctx, baseID, dailyID, start, end)
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	ticket, err = s.tickets.GetByID(ctx, dailyID)
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	ticket, err = s.tickets.GetByID(ctx, baseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if ticket.Date != nil && *ticket.Date == dayKey {
		return ticket, nil
	}
	return nil, nil
}

// resolveOwner maps the payload's owner identification to a user id. A direct
// id always wins over the email lookup; an unknown email leaves the ticket
// unowned.
func (s *IngestService) resolveOwner(ctx context.Context, input IngestInput) (*string, error) {
	if id := strings.TrimSpace(input.OwnerID); id != "" {
		return &id, nil
	}
	email := strings.TrimSpace(input.OwnerEmail)
	if email == "" {
		return nil, nil
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user.ID, nil
}

func (s *IngestService) createBucket(ctx context.Context, dailyID string, input IngestInput, brand, dayKey string, owner *string) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		ID:            dailyID,
		Brand:         brand,
		ClientName:    trimOr(input.ClientName, "Unknown"),
		Subject:       trimOr(input.Subject, "Untitled"),
		Product:       optional(input.Product),
		IssueCategory: optional(input.IssueCategory),
		TicketURL:     optional(input.TicketURL),
		Status:        optional(input.Status),
		LastMessage:   input.LastMessage,
		Date:          &dayKey,
		ClientMsgs:    input.ClientMsgs,
		AgentMsgs:     input.AgentMsgs,
		OwnerID:       owner,
	}
	if ticket.TicketURL == nil {
		url := s.links.LinkFor(dailyID)
		ticket.TicketURL = &url
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// applyUpdate overwrites the bucket's mutable fields with the event's values.
// This is a whole-field overwrite, not a merge: the latest event wins, except
// that an absent incoming value preserves the stored one.
func (s *IngestService) applyUpdate(ctx context.Context, existing *domain.Ticket, input IngestInput, brand, dayKey string, owner *string) (*domain.Ticket, error) {
	ticket := *existing
	ticket.Brand = brand
	ticket.ClientName = trimOr(input.ClientName, ticket.ClientName)
	ticket.Subject = trimOr(input.Subject, ticket.Subject)
	ticket.Product = overwrite(ticket.Product, input.Product)
	ticket.IssueCategory = overwrite(ticket.IssueCategory, input.IssueCategory)
	ticket.TicketURL = overwrite(ticket.TicketURL, input.TicketURL)
	ticket.Status = overwrite(ticket.Status, input.Status)
	if input.LastMessage != "" {
		ticket.LastMessage = input.LastMessage
	}
	ticket.Date = &dayKey
	if input.ClientMsgs != nil {
		ticket.ClientMsgs = input.ClientMsgs
	}
	if input.AgentMsgs != nil {
		ticket.AgentMsgs = input.AgentMsgs
	}
	if owner != nil {
		ticket.OwnerID = owner
	}
	if ticket.TicketURL == nil {
		url := s.links.LinkFor(ticket.ID)
		ticket.TicketURL = &url
	}
	if err := s.tickets.Update(ctx, &ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ticket, nil
}

// afterWrite emits the notification and audit event for a reconciled write.
func (s *IngestService) afterWrite(ctx context.Context, ticket *domain.Ticket, input IngestInput, resolvedOwner *string, created bool) {
	outcome := "updated"
	if created {
		outcome = "created"
	}
	s.metrics.RecordIngest(outcome)

	effectiveOwner := ticket.OwnerID
	if effectiveOwner == nil {
		effectiveOwner = resolvedOwner
	}
	if effectiveOwner != nil {
		notification := &domain.Notification{
			ID:       uuid.NewString(),
			UserID:   *effectiveOwner,
			TicketID: ticket.ID,
			Message:  NotificationMessage(input.LastMessage, ticket.Subject, ticket.ClientName),
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			// Best effort: the ticket write already succeeded and must not
			// be rolled back or failed because of the notification.
			s.logger.Warn("notification write failed",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
		}
	}

	if s.dispatcher != nil {
		eventType := events.EventTicketIngested
		if created {
			eventType = events.EventTicketBucketCreated
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      eventType,
			TicketID:  ticket.ID,
			BaseID:    ticketid.StripDailySuffix(ticket.ID),
			Timestamp: s.now(),
			Payload: events.TicketIngestedPayload{
				DayKey:      deref(ticket.Date),
				Brand:       ticket.Brand,
				Status:      ticket.Status,
				OwnerID:     ticket.OwnerID,
				BucketIsNew: created,
			},
		})
	}
}

// NotificationMessage derives the inbox message for an ingestion event:
// whitespace-collapsed and truncated body text, or a generated sentence when
// the event carried no text.
func NotificationMessage(body, subject, clientName string) string {
	collapsed := strings.Join(strings.Fields(body), " ")
	if collapsed == "" {
		return "New activity on " + subject + " from " + clientName + "."
	}
	runes := []rune(collapsed)
	if len(runes) > notificationMaxLen {
		return string(runes[:notificationMaxLen])
	}
	return collapsed
}

func trimOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func overwrite(current *string, incoming string) *string {
	if next := optional(incoming); next != nil {
		return next
	}
	return current
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
