package repositories

import (
	"context"
	"time"

	"liblend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LoanRepository handles loan ledger data access
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create inserts a new open loan inside a ledger transaction
func (r *LoanRepository) Create(tx *gorm.DB, loan *models.Loan) error {
	return tx.Create(loan).Error
}

// GetByID gets a loan by ID with relations
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Borrower").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Close sets returned_at on an open loan with a guarded update.
// The returned_at IS NULL predicate makes a second return of the same loan
// report zero rows affected instead of closing the record twice.
func (r *LoanRepository) Close(tx *gorm.DB, loanID uint, returnedAt time.Time) (bool, error) {
	res := tx.Model(&models.Loan{}).
		Where("id = ?", loanID).
		Where("returned_at IS NULL").
		Update("returned_at", &returnedAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// GetByIDTx reads a loan inside a ledger transaction
func (r *LoanRepository) GetByIDTx(tx *gorm.DB, loanID uint) (*models.Loan, error) {
	var loan models.Loan
	err := tx.First(&loan, loanID).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListOpen lists all open loans with book and borrower data, newest first
func (r *LoanRepository) ListOpen(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Borrower").
		Where("returned_at IS NULL").
		Order("issued_at DESC").
		Find(&loans).Error
	return loans, err
}

// ListByBorrower lists a borrower's full loan history, newest first
func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("borrower_id = ?", borrowerID).
		Order("issued_at DESC").
		Find(&loans).Error
	return loans, err
}

// TopBorrowers ranks borrowers by historical loan count. Ties break on
// user id ascending, which is registration order.
func (r *LoanRepository) TopBorrowers(ctx context.Context, limit int) ([]*models.BorrowerRank, error) {
	var ranks []*models.BorrowerRank
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id AS borrower_id, users.name, users.email, COUNT(loans.id) AS loan_count").
		Joins("LEFT JOIN loans ON loans.borrower_id = users.id").
		Where("users.role = ?", "BORROWER").
		Group("users.id, users.name, users.email").
		Order("loan_count DESC, users.id ASC").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}

// CountOpen counts all open loans
func (r *LoanRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("returned_at IS NULL").
		Count(&count).Error
	return count, err
}
