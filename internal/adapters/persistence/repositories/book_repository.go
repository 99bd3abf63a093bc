package repositories

import (
	"context"

	"liblend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// BookRepository handles catalog data access
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create creates a new book. A unique index on isbn rejects duplicates.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID
func (r *BookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN gets a book by its ISBN
func (r *BookRepository) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List lists all books with pagination
func (r *BookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

// ListAvailable lists available books with pagination
func (r *BookRepository) ListAvailable(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("available = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

// MarkOnLoan flips a book from available to on-loan with a guarded update.
// The WHERE available = true predicate decides concurrent issuers atomically:
// exactly one update reports a row affected, every other caller gets false.
func (r *BookRepository) MarkOnLoan(tx *gorm.DB, bookID uint) (bool, error) {
	res := tx.Model(&models.Book{}).
		Where("id = ?", bookID).
		Where("available = ?", true).
		Update("available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkAvailable flips a book back to available inside a return transaction
func (r *BookRepository) MarkAvailable(tx *gorm.DB, bookID uint) (bool, error) {
	res := tx.Model(&models.Book{}).
		Where("id = ?", bookID).
		Where("available = ?", false).
		Update("available", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountOpenLoans counts open loans referencing a book.
// Used by tests and the health digest to verify the availability flag stays
// in lockstep with the open-loan record.
func (r *BookRepository) CountOpenLoans(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("book_id = ?", bookID).
		Where("returned_at IS NULL").
		Count(&count).Error
	return count, err
}
