package service

import (
	"context"

	"github.com/worldhost-group/support-dashboard/internal/repository"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

const notificationListCap = 25

// NotificationService serves the owner's notification inbox.
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService constructs the service.
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's newest notifications with ticket subjects attached.
func (s *NotificationService) List(ctx context.Context, userID string) ([]repository.NotificationWithSubject, error) {
	items, err := s.notifications.ListByUser(ctx, userID, notificationListCap)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// MarkRead flips the read flag on the given ids, or on all unread
// notifications when ids is empty.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) error {
	if err := s.notifications.MarkRead(ctx, userID, ids); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes the given ids, or the whole inbox when ids is empty.
func (s *NotificationService) Delete(ctx context.Context, userID string, ids []string) error {
	if err := s.notifications.Delete(ctx, userID, ids); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
