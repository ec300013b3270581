package service

import (
	"context"
	"time"

	"github.com/worldhost-group/support-dashboard/internal/repository"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// DashboardService computes the aggregate views: brand breakdown, issue
// category comparison, the ticket timeline and the daily teammate
// leaderboard. All "today" windows use the dashboard's fixed offset clock.
type DashboardService struct {
	tickets repository.TicketRepository
	clock   ticketid.Clock
	now     func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(tickets repository.TicketRepository, clock ticketid.Clock) *DashboardService {
	return &DashboardService{tickets: tickets, clock: clock, now: time.Now}
}

// BrandBreakdown holds the all-time and today donut series.
type BrandBreakdown struct {
	AllTime []repository.BrandCount
	Today   []repository.BrandCount
}

// BrandBreakdown returns ticket counts per brand, all-time and for today.
func (s *DashboardService) BrandBreakdown(ctx context.Context) (*BrandBreakdown, error) {
	allTime, err := s.tickets.CountByBrand(ctx, nil, nil)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	start, end := s.clock.DayBounds(s.now())
	today, err := s.tickets.CountByBrand(ctx, &start, &end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &BrandBreakdown{AllTime: allTime, Today: today}, nil
}

// IssueCategories returns ticket counts per issue category.
func (s *DashboardService) IssueCategories(ctx context.Context) ([]repository.CategoryCount, error) {
	counts, err := s.tickets.CountByIssueCategory(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// Timeline returns per-day ticket counts for the trailing window.
func (s *DashboardService) Timeline(ctx context.Context, days int) ([]repository.DayCount, error) {
	if days <= 0 {
		days = 30
	}
	start, _ := s.clock.DayBounds(s.now())
	since := start.AddDate(0, 0, -(days - 1))
	counts, err := s.tickets.CountByDay(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// TodayLeaderboard returns per-teammate ticket counts for the current local
// day, busiest first.
func (s *DashboardService) TodayLeaderboard(ctx context.Context) ([]repository.OwnerCount, error) {
	start, end := s.clock.DayBounds(s.now())
	counts, err := s.tickets.CountByOwner(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}
