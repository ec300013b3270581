package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/worldhost-group/support-dashboard/internal/domain"
)

// NotificationWithSubject pairs a notification with its ticket's subject for
// the dropdown list.
type NotificationWithSubject struct {
	domain.Notification
	TicketSubject *string
}

// NotificationRepository defines persistence for the notification inbox.
// All reads and mutations are scoped to the owning user.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]NotificationWithSubject, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
	Delete(ctx context.Context, userID string, ids []string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (id, user_id, ticket_id, message)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		notification.ID,
		notification.UserID,
		notification.TicketID,
		notification.Message,
	).Scan(&notification.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]NotificationWithSubject, error) {
	if limit <= 0 {
		limit = 25
	}
	const query = `
        SELECT n.id, n.user_id, n.ticket_id, n.message, n.is_read, n.created_at, t.subject
        FROM notifications n
        LEFT JOIN tickets t ON t.id = n.ticket_id
        WHERE n.user_id=$1
        ORDER BY n.created_at DESC
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []NotificationWithSubject
	for rows.Next() {
		var item NotificationWithSubject
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.TicketID,
			&item.Message,
			&item.IsRead,
			&item.CreatedAt,
			&item.TicketSubject,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// MarkRead flips the read flag on the given ids; an empty list marks every
// unread notification the user has.
func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		_, err := r.pool.Exec(ctx,
			`UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND is_read=FALSE`, userID)
		return err
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND id = ANY($2)`, userID, ids)
	return err
}

// Delete removes the given ids; an empty list clears the inbox.
func (r *notificationRepository) Delete(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id=$1`, userID)
		return err
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE user_id=$1 AND id = ANY($2)`, userID, ids)
	return err
}
