package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/worldhost-group/support-dashboard/internal/api/dto"
	"github.com/worldhost-group/support-dashboard/internal/auth"
	"github.com/worldhost-group/support-dashboard/internal/service"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// NotificationsHandler manages the notification inbox endpoints.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	items, err := h.service.List(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	responses := make([]dto.NotificationResponse, 0, len(items))
	for _, item := range items {
		subject := "Ticket update"
		if item.TicketSubject != nil && *item.TicketSubject != "" {
			subject = *item.TicketSubject
		}
		responses = append(responses, dto.NotificationResponse{
			ID:            item.ID,
			Message:       item.Message,
			TicketID:      item.TicketID,
			TicketSubject: subject,
			IsRead:        item.IsRead,
			CreatedAt:     item.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"notifications": responses})
}

// MarkRead PATCH /api/notifications. An empty or missing body marks all
// unread notifications read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.NotificationIDsRequest
	_ = c.BodyParser(&req)
	if err := h.service.MarkRead(c.UserContext(), principal.User.ID, req.IDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete DELETE /api/notifications. An empty or missing body clears the inbox.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.NotificationIDsRequest
	_ = c.BodyParser(&req)
	if err := h.service.Delete(c.UserContext(), principal.User.ID, req.IDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
