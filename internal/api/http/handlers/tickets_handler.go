package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/worldhost-group/support-dashboard/internal/api/dto"
	"github.com/worldhost-group/support-dashboard/internal/auth"
	"github.com/worldhost-group/support-dashboard/internal/service"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// TicketsHandler manages dashboard ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	links   supportlink.Builder
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, links supportlink.Builder) *TicketsHandler {
	return &TicketsHandler{service: ticketService, links: links}
}

// List GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	tickets, err := h.service.ListVisible(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i], h.links))
	}
	return c.JSON(fiber.Map{"tickets": items})
}

// Get GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	ticket, err := h.service.Get(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": dto.NewTicketResponse(ticket, h.links)})
}

// Update PATCH /api/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.UserContext(), principal.User.ID, c.Params("id"), service.TicketUpdateInput{
		Brand:         req.Brand,
		ClientName:    req.ClientName,
		Subject:       req.Subject,
		Product:       req.Product,
		IssueCategory: req.IssueCategory,
		TicketURL:     req.TicketURL,
		Status:        req.Status,
		LastMessage:   req.LastMessage,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket, h.links)})
}

// Claim POST /api/tickets/:id/claim.
func (h *TicketsHandler) Claim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	ticket, err := h.service.Claim(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket, h.links)})
}

// Delete DELETE /api/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("invalid id", nil)
	}
	if err := h.service.Delete(c.UserContext(), principal.User.ID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Restore POST /api/tickets/restore.
func (h *TicketsHandler) Restore(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.RestoreTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Ticket == nil {
		return apperrors.NewValidationError("missing ticket", nil)
	}
	snapshot := req.Ticket
	ticket, err := h.service.Restore(c.UserContext(), principal.User.ID, service.RestoreInput{
		ID:            snapshot.ID,
		Brand:         snapshot.Brand,
		ClientName:    snapshot.ClientName,
		Subject:       snapshot.Subject,
		Product:       snapshot.Product,
		IssueCategory: snapshot.IssueCategory,
		TicketURL:     snapshot.TicketURL,
		Status:        snapshot.Status,
		LastMessage:   snapshot.LastMessage,
		Date:          snapshot.Date,
		ClientMsgs:    snapshot.ClientMsgs,
		AgentMsgs:     snapshot.AgentMsgs,
		OwnerID:       snapshot.OwnerID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).
		JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket, h.links)})
}
