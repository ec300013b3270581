package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository. The injectable clock
// stands in for the store's NOW() on inserts so day-window lookups can be
// exercised deterministically.
type fakeTicketRepo struct {
	rows     map[string]*domain.Ticket
	now      func() time.Time
	onCreate func(*domain.Ticket) error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{rows: make(map[string]*domain.Ticket), now: time.Now}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.onCreate != nil {
		hook := f.onCreate
		f.onCreate = nil
		if err := hook(ticket); err != nil {
			return err
		}
	}
	if _, exists := f.rows[ticket.ID]; exists {
		return repository.ErrBucketConflict
	}
	ticket.CreatedAt = f.now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	f.rows[ticket.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	existing, ok := f.rows[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.CreatedAt = existing.CreatedAt
	ticket.UpdatedAt = f.now()
	clone := *ticket
	f.rows[ticket.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (f *fakeTicketRepo) FindDayBucket(_ context.Context, baseID, dailyID string, start, end time.Time) (*domain.Ticket, error) {
	var candidates []*domain.Ticket
	for _, ticket := range f.rows {
		if ticket.ID != baseID && ticket.ID != dailyID {
			continue
		}
		if ticket.CreatedAt.Before(start) || !ticket.CreatedAt.Before(end) {
			continue
		}
		candidates = append(candidates, ticket)
	}
	if len(candidates) == 0 {
		return nil, pgx.ErrNoRows
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	clone := *candidates[0]
	return &clone, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTicketRepo) ListVisibleToUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.rows {
		if ticket.VisibleTo(userID) {
			result = append(result, *ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (f *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.rows {
		result = append(result, *ticket)
	}
	return result, nil
}

func (f *fakeTicketRepo) CountByBrand(_ context.Context, start, end *time.Time) ([]repository.BrandCount, error) {
	counts := make(map[string]int64)
	for _, ticket := range f.rows {
		if start != nil && end != nil {
			if ticket.CreatedAt.Before(*start) || !ticket.CreatedAt.Before(*end) {
				continue
			}
		}
		counts[ticket.Brand]++
	}
	var result []repository.BrandCount
	for brand, count := range counts {
		result = append(result, repository.BrandCount{Brand: brand, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

func (f *fakeTicketRepo) CountByIssueCategory(_ context.Context) ([]repository.CategoryCount, error) {
	counts := make(map[string]int64)
	for _, ticket := range f.rows {
		category := "Uncategorized"
		if ticket.IssueCategory != nil && strings.TrimSpace(*ticket.IssueCategory) != "" {
			category = strings.TrimSpace(*ticket.IssueCategory)
		}
		counts[category]++
	}
	var result []repository.CategoryCount
	for category, count := range counts {
		result = append(result, repository.CategoryCount{Category: category, Count: count})
	}
	return result, nil
}

func (f *fakeTicketRepo) CountByDay(_ context.Context, since time.Time) ([]repository.DayCount, error) {
	counts := make(map[string]int64)
	for _, ticket := range f.rows {
		if ticket.CreatedAt.Before(since) {
			continue
		}
		day := ticket.CreatedAt.UTC().Format("2006-01-02")
		if ticket.Date != nil {
			day = *ticket.Date
		}
		counts[day]++
	}
	var result []repository.DayCount
	for day, count := range counts {
		result = append(result, repository.DayCount{Day: day, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day < result[j].Day })
	return result, nil
}

func (f *fakeTicketRepo) CountByOwner(_ context.Context, start, end time.Time) ([]repository.OwnerCount, error) {
	counts := make(map[string]int64)
	for _, ticket := range f.rows {
		if !ticket.Owned() {
			continue
		}
		if ticket.CreatedAt.Before(start) || !ticket.CreatedAt.Before(end) {
			continue
		}
		counts[*ticket.OwnerID]++
	}
	var result []repository.OwnerCount
	for owner, count := range counts {
		result = append(result, repository.OwnerCount{OwnerID: owner, OwnerName: owner, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: make(map[string]*domain.User)}
	for _, user := range users {
		repo.byEmail[strings.ToLower(strings.TrimSpace(user.Email))] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	f.byEmail[strings.ToLower(strings.TrimSpace(user.Email))] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.byEmail[strings.ToLower(strings.TrimSpace(user.Email))] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.byEmail {
		result = append(result, *user)
	}
	return result, nil
}

type fakeNotificationRepo struct {
	created []domain.Notification
	failErr error
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if f.failErr != nil {
		return f.failErr
	}
	notification.CreatedAt = time.Now()
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]repository.NotificationWithSubject, error) {
	var result []repository.NotificationWithSubject
	for _, notification := range f.created {
		if notification.UserID != userID {
			continue
		}
		result = append(result, repository.NotificationWithSubject{Notification: notification})
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID string, ids []string) error {
	for i := range f.created {
		if f.created[i].UserID != userID {
			continue
		}
		if len(ids) == 0 || contains(ids, f.created[i].ID) {
			f.created[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, userID string, ids []string) error {
	var kept []domain.Notification
	for _, notification := range f.created {
		if notification.UserID == userID && (len(ids) == 0 || contains(ids, notification.ID)) {
			continue
		}
		kept = append(kept, notification)
	}
	f.created = kept
	return nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
