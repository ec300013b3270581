package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/worldhost-group/support-dashboard/internal/api/dto"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	"github.com/worldhost-group/support-dashboard/internal/service"
)

// DashboardHandler serves the aggregate chart endpoints.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Brands GET /api/dashboard/brands.
func (h *DashboardHandler) Brands(c *fiber.Ctx) error {
	breakdown, err := h.service.BrandBreakdown(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"allTime": brandCounts(breakdown.AllTime),
		"today":   brandCounts(breakdown.Today),
	})
}

// Categories GET /api/dashboard/categories.
func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	counts, err := h.service.IssueCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryCountResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.CategoryCountResponse{Category: count.Category, Count: count.Count})
	}
	return c.JSON(fiber.Map{"categories": items})
}

// Timeline GET /api/dashboard/timeline?days=30.
func (h *DashboardHandler) Timeline(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	counts, err := h.service.Timeline(c.UserContext(), days)
	if err != nil {
		return err
	}
	items := make([]dto.DayCountResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.DayCountResponse{Day: count.Day, Count: count.Count})
	}
	return c.JSON(fiber.Map{"timeline": items})
}

// Leaderboard GET /api/dashboard/leaderboard.
func (h *DashboardHandler) Leaderboard(c *fiber.Ctx) error {
	counts, err := h.service.TodayLeaderboard(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.LeaderboardEntryResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.LeaderboardEntryResponse{
			OwnerID:   count.OwnerID,
			OwnerName: count.OwnerName,
			AvatarURL: count.AvatarURL,
			Count:     count.Count,
		})
	}
	return c.JSON(fiber.Map{"leaderboard": items})
}

func brandCounts(counts []repository.BrandCount) []dto.BrandCountResponse {
	items := make([]dto.BrandCountResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.BrandCountResponse{Brand: count.Brand, Count: count.Count})
	}
	return items
}
