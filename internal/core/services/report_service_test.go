package services

import (
	"context"
	"testing"
	"time"

	"liblend/internal/adapters/persistence/models"
	"liblend/internal/adapters/persistence/repositories"
	"liblend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(repositories.NewLoanRepository(db))
}

// insertLoan writes a ledger row directly; closed loans get a returned_at
// one hour after issue.
func insertLoan(t *testing.T, db *gorm.DB, bookID, borrowerID uint, open bool) {
	t.Helper()

	issuedAt := time.Now().Add(-24 * time.Hour)
	loan := &models.Loan{
		BookID:     bookID,
		BorrowerID: borrowerID,
		IssuedAt:   issuedAt,
	}
	if !open {
		returnedAt := issuedAt.Add(time.Hour)
		loan.ReturnedAt = &returnedAt
	}
	require.NoError(t, db.Create(loan).Error)
}

func TestTopBorrowers(t *testing.T) {
	ctx := context.Background()

	t.Run("ties break on registration order", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		admin := createAdmin(t, db)

		// Registered in this order: X, then Y, then Z.
		x := createBorrower(t, db, "Xavier", "xavier@email.com")
		y := createBorrower(t, db, "Yasmin", "yasmin@email.com")
		z := createBorrower(t, db, "Zoya", "zoya@email.com")

		bookA := createBook(t, db, "The Go Programming Language", "978-0134190440")
		bookB := createBook(t, db, "Designing Data-Intensive Applications", "978-1449373320")

		// X and Y have two loans each, Z has one. Closed loans count.
		insertLoan(t, db, bookA.ID, x.ID, false)
		insertLoan(t, db, bookA.ID, x.ID, false)
		insertLoan(t, db, bookB.ID, y.ID, false)
		insertLoan(t, db, bookB.ID, y.ID, true)
		insertLoan(t, db, bookA.ID, z.ID, true)

		ranks, err := svc.TopBorrowers(ctx, actorFor(admin), 3)
		require.NoError(t, err)
		require.Len(t, ranks, 3)

		assert.Equal(t, x.ID, ranks[0].BorrowerID)
		assert.Equal(t, int64(2), ranks[0].LoanCount)
		assert.Equal(t, y.ID, ranks[1].BorrowerID)
		assert.Equal(t, int64(2), ranks[1].LoanCount)
		assert.Equal(t, z.ID, ranks[2].BorrowerID)
		assert.Equal(t, int64(1), ranks[2].LoanCount)
	})

	t.Run("borrowers with no loans rank with count zero", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		admin := createAdmin(t, db)

		active := createBorrower(t, db, "Aarav Sharma", "aarav@email.com")
		idle := createBorrower(t, db, "Meera Iyer", "meera@email.com")
		book := createBook(t, db, "The Go Programming Language", "978-0134190440")
		insertLoan(t, db, book.ID, active.ID, true)

		ranks, err := svc.TopBorrowers(ctx, actorFor(admin), 5)
		require.NoError(t, err)
		require.Len(t, ranks, 2)
		assert.Equal(t, active.ID, ranks[0].BorrowerID)
		assert.Equal(t, idle.ID, ranks[1].BorrowerID)
		assert.Equal(t, int64(0), ranks[1].LoanCount)
	})

	t.Run("administrators never appear in the ranking", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		admin := createAdmin(t, db)
		createBorrower(t, db, "Aarav Sharma", "aarav@email.com")

		ranks, err := svc.TopBorrowers(ctx, actorFor(admin), 10)
		require.NoError(t, err)
		require.Len(t, ranks, 1)
		assert.NotEqual(t, admin.ID, ranks[0].BorrowerID)
	})

	t.Run("result is capped at n", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		admin := createAdmin(t, db)
		createBorrower(t, db, "Xavier", "xavier@email.com")
		createBorrower(t, db, "Yasmin", "yasmin@email.com")
		createBorrower(t, db, "Zoya", "zoya@email.com")

		ranks, err := svc.TopBorrowers(ctx, actorFor(admin), 2)
		require.NoError(t, err)
		assert.Len(t, ranks, 2)
	})

	t.Run("non-admin actor is rejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		borrower := createBorrower(t, db, "Aarav Sharma", "aarav@email.com")

		_, err := svc.TopBorrowers(ctx, actorFor(borrower), 3)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestOutstandingLoans(t *testing.T) {
	ctx := context.Background()

	t.Run("lists open loans only, with display data", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		admin := createAdmin(t, db)
		borrower := createBorrower(t, db, "Aarav Sharma", "aarav@email.com")

		bookA := createBook(t, db, "The Go Programming Language", "978-0134190440")
		bookB := createBook(t, db, "Designing Data-Intensive Applications", "978-1449373320")
		insertLoan(t, db, bookA.ID, borrower.ID, false)
		insertLoan(t, db, bookB.ID, borrower.ID, true)

		loans, err := svc.OutstandingLoans(ctx, actorFor(admin))
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, bookB.ID, loans[0].BookID)
		assert.Equal(t, "Designing Data-Intensive Applications", loans[0].BookTitle)
		assert.Equal(t, "Aarav Sharma", loans[0].BorrowerName)
		assert.Nil(t, loans[0].ReturnedAt)
	})

	t.Run("empty ledger yields an empty report", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		admin := createAdmin(t, db)

		loans, err := svc.OutstandingLoans(ctx, actorFor(admin))
		require.NoError(t, err)
		assert.Empty(t, loans)
	})

	t.Run("non-admin actor is rejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := newReportService(db)
		borrower := createBorrower(t, db, "Aarav Sharma", "aarav@email.com")

		_, err := svc.OutstandingLoans(ctx, actorFor(borrower))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
