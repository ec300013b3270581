package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/worldhost-group/support-dashboard/internal/api/dto"
	"github.com/worldhost-group/support-dashboard/internal/service"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// IngestHandler receives ticket activity from the browser extension.
type IngestHandler struct {
	ingest *service.IngestService
	links  supportlink.Builder
}

// NewIngestHandler constructs handler.
func NewIngestHandler(ingest *service.IngestService, links supportlink.Builder) *IngestHandler {
	return &IngestHandler{ingest: ingest, links: links}
}

// Ingest POST /api/tickets.
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	var req dto.IngestTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.ingest.Ingest(c.UserContext(), service.IngestInput{
		BaseID:        req.ID,
		Brand:         req.Brand,
		ClientName:    req.ClientName,
		Subject:       req.Subject,
		Product:       req.Product,
		IssueCategory: req.IssueCategory,
		TicketURL:     req.TicketURL,
		Status:        req.Status,
		LastMessage:   req.LastMessage,
		Date:          req.Date,
		ClientMsgs:    req.ClientMsgs,
		AgentMsgs:     req.AgentMsgs,
		OwnerEmail:    req.OwnerEmail,
		OwnerID:       req.OwnerID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(dto.IngestTicketResponse{
		Success: true,
		Ticket:  dto.NewTicketResponse(ticket, h.links),
	})
}
