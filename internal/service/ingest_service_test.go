package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

type ingestFixture struct {
	service       *IngestService
	tickets       *fakeTicketRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
}

func newIngestFixture(t *testing.T, now time.Time, users ...*domain.User) *ingestFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	tickets.now = func() time.Time { return now }
	notifications := &fakeNotificationRepo{}
	userRepo := newFakeUserRepo(users...)
	service := NewIngestService(IngestDependencies{
		TicketRepo:       tickets,
		UserRepo:         userRepo,
		NotificationRepo: notifications,
		Clock:            ticketid.Clock{},
		Links:            supportlink.NewBuilder(""),
		Now:              func() time.Time { return now },
	})
	return &ingestFixture{
		service:       service,
		tickets:       tickets,
		users:         userRepo,
		notifications: notifications,
	}
}

func TestIngestSameDayEventsShareBucket(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	first, err := fx.service.Ingest(ctx, IngestInput{
		BaseID:      "T1",
		Brand:       "WorldHost",
		ClientName:  "Dana",
		Subject:     "Login broken",
		Status:      "Open",
		LastMessage: "cannot log in",
	})
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if first.ID != "T1__day__2024-03-05" {
		t.Fatalf("daily id = %q, want %q", first.ID, "T1__day__2024-03-05")
	}
	if first.Date == nil || *first.Date != "2024-03-05" {
		t.Fatalf("date = %v, want 2024-03-05", first.Date)
	}

	second, err := fx.service.Ingest(ctx, IngestInput{
		BaseID:      "T1",
		Brand:       "WorldHost",
		Status:      "Answered",
		LastMessage: "we replied",
	})
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second event created a new bucket: %q vs %q", second.ID, first.ID)
	}
	if len(fx.tickets.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(fx.tickets.rows))
	}
	if second.Status == nil || *second.Status != "Answered" {
		t.Fatalf("status = %v, want Answered", second.Status)
	}
	if second.LastMessage != "we replied" {
		t.Fatalf("last message = %q, want %q", second.LastMessage, "we replied")
	}
	if second.Subject != "Login broken" {
		t.Fatalf("absent subject overwrote stored one: %q", second.Subject)
	}
}

func TestIngestCrossDayCreatesNewBucket(t *testing.T) {
	day1 := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, day1)
	ctx := context.Background()

	if _, err := fx.service.Ingest(ctx, IngestInput{BaseID: "T1", Brand: "WorldHost", Date: "2024-03-05"}); err != nil {
		t.Fatalf("day 1 ingest: %v", err)
	}
	fx.tickets.now = func() time.Time { return day2 }
	second, err := fx.service.Ingest(ctx, IngestInput{BaseID: "T1", Brand: "WorldHost", Date: "2024-03-06"})
	if err != nil {
		t.Fatalf("day 2 ingest: %v", err)
	}
	if second.ID != "T1__day__2024-03-06" {
		t.Fatalf("day 2 id = %q, want %q", second.ID, "T1__day__2024-03-06")
	}
	if len(fx.tickets.rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(fx.tickets.rows))
	}
}

func TestIngestRequiresIDAndBrand(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	for name, input := range map[string]IngestInput{
		"missing id":       {Brand: "WorldHost"},
		"missing brand":    {BaseID: "T1"},
		"whitespace id":    {BaseID: "   ", Brand: "WorldHost"},
		"whitespace brand": {BaseID: "T1", Brand: "\t"},
	} {
		_, err := fx.service.Ingest(ctx, input)
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
			t.Fatalf("%s: err = %v, want VALIDATION_FAILED", name, err)
		}
	}
	if len(fx.tickets.rows) != 0 {
		t.Fatalf("invalid events persisted %d rows", len(fx.tickets.rows))
	}
}

func TestIngestDefaultsAndLinkFallback(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)

	ticket, err := fx.service.Ingest(context.Background(), IngestInput{BaseID: "T1", Brand: "WorldHost"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if ticket.ClientName != "Unknown" {
		t.Fatalf("client name = %q, want Unknown", ticket.ClientName)
	}
	if ticket.Subject != "Untitled" {
		t.Fatalf("subject = %q, want Untitled", ticket.Subject)
	}
	wantURL := supportlink.DefaultInboxURL + "/T1"
	if ticket.TicketURL == nil || *ticket.TicketURL != wantURL {
		t.Fatalf("ticket url = %v, want %q", ticket.TicketURL, wantURL)
	}
	if ticket.OwnerID != nil {
		t.Fatalf("unowned event got owner %q", *ticket.OwnerID)
	}
}

func TestIngestOwnerResolution(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	agent := &domain.User{ID: "u-1", Email: "agent@worldhost.group"}
	ctx := context.Background()

	t.Run("email lookup is case and space insensitive", func(t *testing.T) {
		fx := newIngestFixture(t, now, agent)
		ticket, err := fx.service.Ingest(ctx, IngestInput{
			BaseID: "T1", Brand: "WorldHost", OwnerEmail: "  Agent@WorldHost.Group ",
		})
		if err != nil {
			t.Fatalf("ingest: %v", err)
		}
		if ticket.OwnerID == nil || *ticket.OwnerID != "u-1" {
			t.Fatalf("owner = %v, want u-1", ticket.OwnerID)
		}
	})

	t.Run("unknown email leaves ticket unowned", func(t *testing.T) {
		fx := newIngestFixture(t, now, agent)
		ticket, err := fx.service.Ingest(ctx, IngestInput{
			BaseID: "T1", Brand: "WorldHost", OwnerEmail: "nobody@worldhost.group",
		})
		if err != nil {
			t.Fatalf("ingest: %v", err)
		}
		if ticket.OwnerID != nil {
			t.Fatalf("owner = %q, want none", *ticket.OwnerID)
		}
		if len(fx.notifications.created) != 0 {
			t.Fatalf("unowned event produced %d notifications", len(fx.notifications.created))
		}
	})

	t.Run("direct id wins over email", func(t *testing.T) {
		fx := newIngestFixture(t, now, agent)
		ticket, err := fx.service.Ingest(ctx, IngestInput{
			BaseID: "T1", Brand: "WorldHost", OwnerID: "u-9", OwnerEmail: "agent@worldhost.group",
		})
		if err != nil {
			t.Fatalf("ingest: %v", err)
		}
		if ticket.OwnerID == nil || *ticket.OwnerID != "u-9" {
			t.Fatalf("owner = %v, want u-9", ticket.OwnerID)
		}
	})
}

func TestIngestNotifiesOwnerOnEveryEvent(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	agent := &domain.User{ID: "u-1", Email: "agent@worldhost.group"}
	fx := newIngestFixture(t, now, agent)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := fx.service.Ingest(ctx, IngestInput{
			BaseID:      "T1",
			Brand:       "WorldHost",
			OwnerEmail:  "agent@worldhost.group",
			LastMessage: "ping\n  ping",
		}); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}
	if len(fx.notifications.created) != 2 {
		t.Fatalf("notification count = %d, want 2", len(fx.notifications.created))
	}
	got := fx.notifications.created[0]
	if got.UserID != "u-1" {
		t.Fatalf("notification user = %q, want u-1", got.UserID)
	}
	if got.TicketID != "T1__day__2024-03-05" {
		t.Fatalf("notification ticket = %q", got.TicketID)
	}
	if got.Message != "ping ping" {
		t.Fatalf("message = %q, want whitespace collapsed %q", got.Message, "ping ping")
	}
}

func TestIngestSurvivesNotificationFailure(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	agent := &domain.User{ID: "u-1", Email: "agent@worldhost.group"}
	fx := newIngestFixture(t, now, agent)
	fx.notifications.failErr = errors.New("notifications table unavailable")

	ticket, err := fx.service.Ingest(context.Background(), IngestInput{
		BaseID: "T1", Brand: "WorldHost", OwnerEmail: "agent@worldhost.group",
	})
	if err != nil {
		t.Fatalf("ingest failed on notification error: %v", err)
	}
	if _, ok := fx.tickets.rows[ticket.ID]; !ok {
		t.Fatalf("ticket row missing after notification failure")
	}
}

func TestIngestPreservesFieldsOnSparseUpdate(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	if _, err := fx.service.Ingest(ctx, IngestInput{
		BaseID:        "T1",
		Brand:         "WorldHost",
		ClientName:    "Dana",
		Subject:       "Login broken",
		Product:       "Hosting",
		IssueCategory: "Technical issue",
		TicketURL:     "https://desk.example.com/t/1",
		Status:        "Open",
		LastMessage:   "cannot log in",
		ClientMsgs:    json.RawMessage(`["cannot log in"]`),
	}); err != nil {
		t.Fatalf("full ingest: %v", err)
	}

	ticket, err := fx.service.Ingest(ctx, IngestInput{BaseID: "T1", Brand: "WorldHost"})
	if err != nil {
		t.Fatalf("sparse ingest: %v", err)
	}
	if ticket.ClientName != "Dana" || ticket.Subject != "Login broken" {
		t.Fatalf("sparse event cleared identity fields: %q / %q", ticket.ClientName, ticket.Subject)
	}
	if ticket.Product == nil || *ticket.Product != "Hosting" {
		t.Fatalf("product = %v, want Hosting", ticket.Product)
	}
	if ticket.Status == nil || *ticket.Status != "Open" {
		t.Fatalf("status = %v, want Open", ticket.Status)
	}
	if ticket.TicketURL == nil || *ticket.TicketURL != "https://desk.example.com/t/1" {
		t.Fatalf("ticket url = %v, want stored one", ticket.TicketURL)
	}
	if ticket.LastMessage != "cannot log in" {
		t.Fatalf("last message = %q, want preserved", ticket.LastMessage)
	}
	if string(ticket.ClientMsgs) != `["cannot log in"]` {
		t.Fatalf("client msgs = %s, want preserved", ticket.ClientMsgs)
	}
}

func TestIngestBucketConflictRetriesAsUpdate(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	// Simulate a concurrent create winning the bucket between the lookup
	// and the insert.
	fx.tickets.onCreate = func(ticket *domain.Ticket) error {
		winner := &domain.Ticket{
			ID:        ticket.ID,
			Brand:     "WorldHost",
			Subject:   "Login broken",
			CreatedAt: now,
			UpdatedAt: now,
		}
		fx.tickets.rows[winner.ID] = winner
		return repository.ErrBucketConflict
	}

	ticket, err := fx.service.Ingest(ctx, IngestInput{
		BaseID: "T1", Brand: "WorldHost", Status: "Answered",
	})
	if err != nil {
		t.Fatalf("ingest after conflict: %v", err)
	}
	if len(fx.tickets.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(fx.tickets.rows))
	}
	if ticket.Status == nil || *ticket.Status != "Answered" {
		t.Fatalf("loser's event not applied as update: status = %v", ticket.Status)
	}
	if ticket.Subject != "Login broken" {
		t.Fatalf("winner's subject lost: %q", ticket.Subject)
	}
}

func TestIngestBackdatedEventConvergesOnExistingBucket(t *testing.T) {
	// The wall clock is days past the hinted day, so the bucket's created_at
	// lies outside the hinted window and only the id can find it.
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	first, err := fx.service.Ingest(ctx, IngestInput{
		BaseID: "T1", Brand: "WorldHost", Date: "2024-03-05", Status: "Open",
	})
	if err != nil {
		t.Fatalf("first backdated ingest: %v", err)
	}
	if first.ID != "T1__day__2024-03-05" {
		t.Fatalf("daily id = %q, want %q", first.ID, "T1__day__2024-03-05")
	}

	second, err := fx.service.Ingest(ctx, IngestInput{
		BaseID: "T1", Brand: "WorldHost", Date: "2024-03-05", Status: "Answered",
	})
	if err != nil {
		t.Fatalf("replayed backdated ingest: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay created a new bucket: %q vs %q", second.ID, first.ID)
	}
	if len(fx.tickets.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(fx.tickets.rows))
	}
	if second.Status == nil || *second.Status != "Answered" {
		t.Fatalf("status = %v, want Answered", second.Status)
	}
}

func TestIngestBackdatedEventUpdatesLegacyRow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	day := "2024-03-05"
	legacy := &domain.Ticket{
		ID:        "T1",
		Brand:     "WorldHost",
		Subject:   "Old row",
		Date:      &day,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	fx.tickets.rows[legacy.ID] = legacy

	ticket, err := fx.service.Ingest(ctx, IngestInput{
		BaseID: "T1", Brand: "WorldHost", Date: day, Status: "Open",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if ticket.ID != "T1" {
		t.Fatalf("legacy row not reused: got id %q", ticket.ID)
	}
	if len(fx.tickets.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(fx.tickets.rows))
	}
}

func TestIngestUpdatesLegacyBareIDRow(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	fx := newIngestFixture(t, now)
	ctx := context.Background()

	legacy := &domain.Ticket{
		ID:        "T1",
		Brand:     "WorldHost",
		Subject:   "Old row",
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	fx.tickets.rows[legacy.ID] = legacy

	ticket, err := fx.service.Ingest(ctx, IngestInput{BaseID: "T1", Brand: "WorldHost", Status: "Open"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if ticket.ID != "T1" {
		t.Fatalf("legacy row not reused: got id %q", ticket.ID)
	}
	if len(fx.tickets.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(fx.tickets.rows))
	}
}

func TestNotificationMessage(t *testing.T) {
	if got := NotificationMessage("  line one \n line\ttwo  ", "s", "c"); got != "line one line two" {
		t.Fatalf("collapse = %q", got)
	}
	if got := NotificationMessage("", "Login broken", "Dana"); got != "New activity on Login broken from Dana." {
		t.Fatalf("fallback = %q", got)
	}
	long := strings.Repeat("x", 500)
	if got := NotificationMessage(long, "s", "c"); len([]rune(got)) != notificationMaxLen {
		t.Fatalf("truncated length = %d, want %d", len([]rune(got)), notificationMaxLen)
	}
}
