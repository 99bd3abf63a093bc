package services

import (
	"context"

	"liblend/internal/adapters/persistence/models"
	"liblend/internal/adapters/persistence/repositories"
	"liblend/internal/core/domain"
)

// ReportService serves read-only projections over committed catalog and
// ledger state. It holds no invariants and never writes.
type ReportService struct {
	loanRepo *repositories.LoanRepository
}

// NewReportService creates a new report service
func NewReportService(loanRepo *repositories.LoanRepository) *ReportService {
	return &ReportService{loanRepo: loanRepo}
}

// OutstandingLoans returns all open loans joined with book and borrower
// display data, newest first
func (s *ReportService) OutstandingLoans(ctx context.Context, actor domain.ActorContext) ([]*models.LoanResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	loans, err := s.loanRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loan.ToResponse())
	}
	return out, nil
}

// TopBorrowers returns the n borrowers with the most historical loans.
// Ties break on registration order (ascending user id), so the ranking is
// deterministic for equal counts.
func (s *ReportService) TopBorrowers(ctx context.Context, actor domain.ActorContext, n int) ([]*models.BorrowerRank, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	if n < 1 {
		n = 3
	}
	if n > 100 {
		n = 100
	}

	return s.loanRepo.TopBorrowers(ctx, n)
}
