package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/worldhost-group/support-dashboard/internal/domain"
)

// BrandCount is one slice of the brand breakdown donut.
type BrandCount struct {
	Brand string
	Count int64
}

// CategoryCount is one bar of the issue-category comparison.
type CategoryCount struct {
	Category string
	Count    int64
}

// DayCount is one point on the ticket timeline.
type DayCount struct {
	Day   string
	Count int64
}

// OwnerCount is one row of the per-teammate leaderboard.
type OwnerCount struct {
	OwnerID   string
	OwnerName string
	AvatarURL *string
	Count     int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindDayBucket(ctx context.Context, baseID, dailyID string, start, end time.Time) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	ListVisibleToUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	CountByBrand(ctx context.Context, start, end *time.Time) ([]BrandCount, error)
	CountByIssueCategory(ctx context.Context) ([]CategoryCount, error)
	CountByDay(ctx context.Context, since time.Time) ([]DayCount, error)
	CountByOwner(ctx context.Context, start, end time.Time) ([]OwnerCount, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, brand, client_name, subject, product, issue_category, ticket_url,
               status, last_message, date, client_msgs, agent_msgs, owner_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, brand, client_name, subject, product, issue_category, ticket_url,
                             status, last_message, date, client_msgs, agent_msgs, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Brand,
		ticket.ClientName,
		ticket.Subject,
		ticket.Product,
		ticket.IssueCategory,
		ticket.TicketURL,
		ticket.Status,
		ticket.LastMessage,
		ticket.Date,
		ticket.ClientMsgs,
		ticket.AgentMsgs,
		ticket.OwnerID,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBucketConflict
		}
		return err
	}
	return nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET brand=$1, client_name=$2, subject=$3, product=$4, issue_category=$5,
            ticket_url=$6, status=$7, last_message=$8, date=$9, client_msgs=$10, agent_msgs=$11,
            owner_id=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Brand,
		ticket.ClientName,
		ticket.Subject,
		ticket.Product,
		ticket.IssueCategory,
		ticket.TicketURL,
		ticket.Status,
		ticket.LastMessage,
		ticket.Date,
		ticket.ClientMsgs,
		ticket.AgentMsgs,
		ticket.OwnerID,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// FindDayBucket returns the most-recently-created ticket row for this base id
// on the day delimited by [start, end). The row may be stored under the bare
// base id (legacy rows created before daily bucketing; retire this branch
// once no bare-id rows remain) or under the composite daily id.
func (r *ticketRepository) FindDayBucket(ctx context.Context, baseID, dailyID string, start, end time.Time) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE id = ANY($1) AND created_at >= $2 AND created_at < $3
        ORDER BY created_at DESC
        LIMIT 1`
	var ticket domain.Ticket
	row := r.pool.QueryRow(ctx, query, []string{baseID, dailyID}, start, end)
	if err := scanTicket(row, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListVisibleToUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE owner_id IS NULL OR owner_id=$1
        ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByBrand(ctx context.Context, start, end *time.Time) ([]BrandCount, error) {
	query := `SELECT brand, COUNT(*) FROM tickets`
	args := []any{}
	if start != nil && end != nil {
		query += ` WHERE created_at >= $1 AND created_at < $2`
		args = append(args, *start, *end)
	}
	query += ` GROUP BY brand ORDER BY COUNT(*) DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BrandCount
	for rows.Next() {
		var item BrandCount
		if err := rows.Scan(&item.Brand, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByIssueCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `
        SELECT COALESCE(NULLIF(TRIM(issue_category), ''), 'Uncategorized'), COUNT(*)
        FROM tickets
        GROUP BY 1 ORDER BY COUNT(*) DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var item CategoryCount
		if err := rows.Scan(&item.Category, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	const query = `
        SELECT COALESCE(date, to_char(created_at, 'YYYY-MM-DD')) AS day, COUNT(*)
        FROM tickets
        WHERE created_at >= $1
        GROUP BY day ORDER BY day`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayCount
	for rows.Next() {
		var item DayCount
		if err := rows.Scan(&item.Day, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByOwner(ctx context.Context, start, end time.Time) ([]OwnerCount, error) {
	const query = `
        SELECT u.id, COALESCE(NULLIF(u.name, ''), u.email), u.avatar_url, COUNT(*)
        FROM tickets t
        JOIN users u ON u.id = t.owner_id
        WHERE t.created_at >= $1 AND t.created_at < $2
        GROUP BY u.id, u.name, u.email, u.avatar_url
        ORDER BY COUNT(*) DESC`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OwnerCount
	for rows.Next() {
		var item OwnerCount
		if err := rows.Scan(&item.OwnerID, &item.OwnerName, &item.AvatarURL, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Brand,
		&ticket.ClientName,
		&ticket.Subject,
		&ticket.Product,
		&ticket.IssueCategory,
		&ticket.TicketURL,
		&ticket.Status,
		&ticket.LastMessage,
		&ticket.Date,
		&ticket.ClientMsgs,
		&ticket.AgentMsgs,
		&ticket.OwnerID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
