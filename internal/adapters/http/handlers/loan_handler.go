package handlers

import (
	"errors"
	"strconv"

	"liblend/internal/adapters/http/middleware"
	"liblend/internal/adapters/persistence/models"
	"liblend/internal/core/domain"
	"liblend/internal/core/services"
	"liblend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan ledger endpoints
type LoanHandler struct {
	ledgerService *services.LedgerService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(ledgerService *services.LedgerService) *LoanHandler {
	return &LoanHandler{
		ledgerService: ledgerService,
	}
}

// IssueLoanRequest represents issue loan request
type IssueLoanRequest struct {
	BookID     uint `json:"book_id"`
	BorrowerID uint `json:"borrower_id"`
}

// Issue issues a book to a borrower
// @Summary Issue loan
// @Description Lend a book to a borrower (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IssueLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Issue(c *fiber.Ctx) error {
	var req IssueLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.BookID == 0 {
		return response.BadRequest(c, "Book ID is required")
	}
	if req.BorrowerID == 0 {
		return response.BadRequest(c, "Borrower ID is required")
	}

	actor := middleware.ActorFromCtx(c)

	loan, err := h.ledgerService.IssueLoan(c.Context(), actor, req.BookID, req.BorrowerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Only administrators can issue loans")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrBorrowerNotFound):
			return response.NotFound(c, "Borrower not found")
		case errors.Is(err, domain.ErrBookUnavailable):
			return response.Conflict(c, "Book is not available")
		case errors.Is(err, domain.ErrTransientConflict):
			return response.ServiceUnavailable(c, "Ledger busy, please retry")
		default:
			return response.InternalServerError(c, "Failed to issue loan")
		}
	}

	return response.Created(c, "Book issued successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// Return closes an open loan
// @Summary Return loan
// @Description Return a lent book (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/return [put]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	actor := middleware.ActorFromCtx(c)

	loan, err := h.ledgerService.ReturnLoan(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Only administrators can return loans")
		case errors.Is(err, domain.ErrInvalidLoan):
			return response.UnprocessableEntity(c, "Loan is already closed or does not exist")
		case errors.Is(err, domain.ErrTransientConflict):
			return response.ServiceUnavailable(c, "Ledger busy, please retry")
		default:
			return response.InternalServerError(c, "Failed to return loan")
		}
	}

	return response.Success(c, "Book returned successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// ListOpen lists all open loans
// @Summary List open loans
// @Description List all currently issued books (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListOpen(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	if !actor.IsAdmin() {
		return response.Forbidden(c, "Only administrators can list open loans")
	}

	loans, err := h.ledgerService.ListOpenLoans(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list open loans")
	}

	return response.Success(c, "Open loans retrieved successfully", fiber.Map{
		"loans": toLoanResponses(loans),
		"total": len(loans),
	})
}

// My lists the requesting borrower's loan history
// @Summary My loans
// @Description List the authenticated borrower's loan history
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) My(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	loans, err := h.ledgerService.ListLoansForBorrower(c.Context(), actor, actor.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": toLoanResponses(loans),
		"total": len(loans),
	})
}

// History lists a borrower's loan history by borrower ID
// @Summary Borrower loan history
// @Description List a borrower's loan history (Admin, or the borrower themselves)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrower ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/borrower/{id} [get]
func (h *LoanHandler) History(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid borrower ID")
	}

	actor := middleware.ActorFromCtx(c)

	loans, err := h.ledgerService.ListLoansForBorrower(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "You may only view your own loan history")
		default:
			return response.InternalServerError(c, "Failed to list loans")
		}
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": toLoanResponses(loans),
		"total": len(loans),
	})
}

// toLoanResponses maps loan models to DTOs
func toLoanResponses(loans []*models.Loan) []*models.LoanResponse {
	out := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loan.ToResponse())
	}
	return out
}
