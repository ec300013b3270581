package service

import (
	"context"
	"testing"
	"time"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
)

func TestDashboardBrandBreakdown(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	repo := newFakeTicketRepo()
	repo.rows["a"] = &domain.Ticket{ID: "a", Brand: "WorldHost", CreatedAt: now}
	repo.rows["b"] = &domain.Ticket{ID: "b", Brand: "WorldHost", CreatedAt: now.AddDate(0, 0, -2)}
	repo.rows["c"] = &domain.Ticket{ID: "c", Brand: "Stablepoint", CreatedAt: now.AddDate(0, 0, -2)}

	service := NewDashboardService(repo, ticketid.Clock{})
	service.now = func() time.Time { return now }

	breakdown, err := service.BrandBreakdown(context.Background())
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(breakdown.AllTime) != 2 {
		t.Fatalf("all-time brands = %d, want 2", len(breakdown.AllTime))
	}
	if len(breakdown.Today) != 1 || breakdown.Today[0].Brand != "WorldHost" || breakdown.Today[0].Count != 1 {
		t.Fatalf("today = %+v, want one WorldHost ticket", breakdown.Today)
	}
}

func TestDashboardTodayLeaderboard(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	u1, u2 := "u-1", "u-2"
	repo := newFakeTicketRepo()
	repo.rows["a"] = &domain.Ticket{ID: "a", Brand: "WorldHost", OwnerID: &u1, CreatedAt: now}
	repo.rows["b"] = &domain.Ticket{ID: "b", Brand: "WorldHost", OwnerID: &u1, CreatedAt: now.Add(time.Hour)}
	repo.rows["c"] = &domain.Ticket{ID: "c", Brand: "WorldHost", OwnerID: &u2, CreatedAt: now}
	repo.rows["d"] = &domain.Ticket{ID: "d", Brand: "WorldHost", OwnerID: &u2, CreatedAt: now.AddDate(0, 0, -1)}
	repo.rows["e"] = &domain.Ticket{ID: "e", Brand: "WorldHost", CreatedAt: now}

	service := NewDashboardService(repo, ticketid.Clock{})
	service.now = func() time.Time { return now }

	counts, err := service.TodayLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("owner rows = %d, want 2", len(counts))
	}
	if counts[0].OwnerID != u1 || counts[0].Count != 2 {
		t.Fatalf("top = %+v, want u-1 with 2", counts[0])
	}
	if counts[1].OwnerID != u2 || counts[1].Count != 1 {
		t.Fatalf("second = %+v, want u-2 with 1", counts[1])
	}
}
