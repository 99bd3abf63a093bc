package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"liblend/internal/adapters/persistence/models"
	"liblend/internal/adapters/persistence/repositories"
	"liblend/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// maxCommandRetries bounds how often a ledger command is retried after a
// storage-level conflict before ErrTransientConflict is surfaced.
const maxCommandRetries = 3

// LedgerService owns the loan lifecycle and is the only writer of book
// availability. Every command runs as one database transaction: the loan
// record and the availability flag commit together or not at all.
type LedgerService struct {
	db       *gorm.DB
	bookRepo *repositories.BookRepository
	loanRepo *repositories.LoanRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	db *gorm.DB,
	bookRepo *repositories.BookRepository,
	loanRepo *repositories.LoanRepository,
) *LedgerService {
	return &LedgerService{
		db:       db,
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// IssueLoan lends a book to a borrower. The availability guard and the loan
// insert share one transaction, so of N concurrent issuers of the same book
// exactly one commits; the rest observe ErrBookUnavailable.
func (s *LedgerService) IssueLoan(ctx context.Context, actor domain.ActorContext, bookID, borrowerID uint) (*models.Loan, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	var loan *models.Loan
	err := s.runCommand(ctx, func(tx *gorm.DB) error {
		// Validate references first so a missing book reads as NotFound,
		// not as unavailable.
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		var borrower models.User
		if err := tx.First(&borrower, borrowerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBorrowerNotFound
			}
			return err
		}
		if borrower.Role != string(domain.RoleBorrower) {
			return domain.ErrBorrowerNotFound
		}

		won, err := s.bookRepo.MarkOnLoan(tx, bookID)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrBookUnavailable
		}

		loan = &models.Loan{
			BookID:     bookID,
			BorrowerID: borrowerID,
			IssuedAt:   time.Now(),
		}
		return s.loanRepo.Create(tx, loan)
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// ReturnLoan closes an open loan and releases the book. Closing is guarded
// on returned_at IS NULL, so a repeated return fails with ErrInvalidLoan
// and leaves the book untouched.
func (s *LedgerService) ReturnLoan(ctx context.Context, actor domain.ActorContext, loanID uint) (*models.Loan, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	var returned *models.Loan
	err := s.runCommand(ctx, func(tx *gorm.DB) error {
		loan, err := s.loanRepo.GetByIDTx(tx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInvalidLoan
			}
			return err
		}

		now := time.Now()
		closed, err := s.loanRepo.Close(tx, loanID, now)
		if err != nil {
			return err
		}
		if !closed {
			return domain.ErrInvalidLoan
		}

		released, err := s.bookRepo.MarkAvailable(tx, loan.BookID)
		if err != nil {
			return err
		}
		if !released {
			// An open loan over an available book means the flag drifted
			// from the ledger; abort so nothing commits.
			return fmt.Errorf("book %d availability out of sync with open loan %d", loan.BookID, loanID)
		}

		loan.ReturnedAt = &now
		returned = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return returned, nil
}

// ListOpenLoans lists all currently open loans with display data
func (s *LedgerService) ListOpenLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.loanRepo.ListOpen(ctx)
}

// ListLoansForBorrower lists a borrower's loan history. Borrowers may only
// read their own history; administrators may read anyone's.
func (s *LedgerService) ListLoansForBorrower(ctx context.Context, actor domain.ActorContext, borrowerID uint) ([]*models.Loan, error) {
	if !actor.IsAdmin() && actor.ID != borrowerID {
		return nil, domain.ErrUnauthorized
	}
	return s.loanRepo.ListByBorrower(ctx, borrowerID)
}

// GetLoan gets a single loan by ID
func (s *LedgerService) GetLoan(ctx context.Context, actor domain.ActorContext, loanID uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != loan.BorrowerID {
		return nil, domain.ErrUnauthorized
	}
	return loan, nil
}

// runCommand executes fn as one transaction, retrying storage-level
// conflicts up to maxCommandRetries before reporting ErrTransientConflict.
func (s *LedgerService) runCommand(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxCommandRetries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if !isRetryable(err) {
			return err
		}
	}
	return domain.ErrTransientConflict
}

// isRetryable reports whether err is a contention failure worth retrying:
// MySQL deadlock (1213) or lock wait timeout (1205), or a locked SQLite
// handle from the test database.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}

	return strings.Contains(err.Error(), "database is locked")
}
