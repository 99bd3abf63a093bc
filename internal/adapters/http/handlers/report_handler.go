package handlers

import (
	"errors"
	"strconv"

	"liblend/internal/adapters/http/middleware"
	"liblend/internal/core/domain"
	"liblend/internal/core/services"
	"liblend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Outstanding lists books that have not been returned
// @Summary Outstanding loans report
// @Description List open loans with book and borrower data (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports/outstanding [get]
func (h *ReportHandler) Outstanding(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	loans, err := h.reportService.OutstandingLoans(c.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Only administrators can view reports")
		default:
			return response.InternalServerError(c, "Failed to build report")
		}
	}

	return response.Success(c, "Outstanding loans retrieved successfully", fiber.Map{
		"loans": loans,
		"total": len(loans),
	})
}

// TopBorrowers ranks borrowers by historical loan count
// @Summary Top borrowers report
// @Description Rank borrowers by loan count, ties broken by registration order (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param n query int false "Number of borrowers" default(3)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports/top-borrowers [get]
func (h *ReportHandler) TopBorrowers(c *fiber.Ctx) error {
	n, _ := strconv.Atoi(c.Query("n", "3"))

	actor := middleware.ActorFromCtx(c)

	ranks, err := h.reportService.TopBorrowers(c.Context(), actor, n)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Only administrators can view reports")
		default:
			return response.InternalServerError(c, "Failed to build report")
		}
	}

	return response.Success(c, "Top borrowers retrieved successfully", fiber.Map{
		"borrowers": ranks,
	})
}
