package services

import (
	"context"
	"log"

	"liblend/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DigestService runs the daily outstanding-loans digest (08:30) so
// librarians start the day with the current open-loan picture in the log.
type DigestService struct {
	cron     *cron.Cron
	loanRepo *repositories.LoanRepository
}

// NewDigestService creates a new digest service
func NewDigestService(db *gorm.DB) *DigestService {
	return &DigestService{
		cron:     cron.New(),
		loanRepo: repositories.NewLoanRepository(db),
	}
}

// Start schedules the daily digest job
func (s *DigestService) Start() {
	_, err := s.cron.AddFunc("30 8 * * *", s.logOpenLoans)
	if err != nil {
		log.Printf("⚠️ Failed to schedule loan digest: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Loan digest scheduled (08:30 daily)")
}

// Stop stops the scheduler
func (s *DigestService) Stop() {
	s.cron.Stop()
}

// logOpenLoans writes the outstanding-loans digest to the log
func (s *DigestService) logOpenLoans() {
	ctx := context.Background()

	loans, err := s.loanRepo.ListOpen(ctx)
	if err != nil {
		log.Printf("⚠️ Loan digest failed: %v", err)
		return
	}

	log.Printf("📚 Loan digest: %d book(s) currently on loan", len(loans))
	for _, loan := range loans {
		title := "(unknown title)"
		borrower := "(unknown borrower)"
		if loan.Book != nil {
			title = loan.Book.Title
		}
		if loan.Borrower != nil {
			borrower = loan.Borrower.Name
		}
		log.Printf("   • %q held by %s since %s", title, borrower, loan.IssuedAt.Format("2006-01-02"))
	}
}
