package services

import (
	"context"
	"errors"
	"strings"

	"liblend/internal/adapters/persistence/models"
	"liblend/internal/adapters/persistence/repositories"
	"liblend/internal/core/domain"

	"gorm.io/gorm"
)

// CatalogService handles the book catalog. It never touches availability
// beyond the initial value; flipping the flag belongs to the ledger.
type CatalogService struct {
	bookRepo *repositories.BookRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(bookRepo *repositories.BookRepository) *CatalogService {
	return &CatalogService{bookRepo: bookRepo}
}

// AddBookInput represents add book input
type AddBookInput struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required"`
}

// AddBook adds a new book to the catalog, available by default.
// The unique index on isbn rejects duplicates at the storage boundary.
func (s *CatalogService) AddBook(ctx context.Context, actor domain.ActorContext, input *AddBookInput) (*models.Book, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	book := &models.Book{
		Title:     strings.TrimSpace(input.Title),
		Author:    strings.TrimSpace(input.Author),
		ISBN:      strings.TrimSpace(input.ISBN),
		Available: true,
	}

	if book.Title == "" || book.Author == "" || book.ISBN == "" {
		return nil, domain.ErrInvalidInput
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}

	return book, nil
}

// GetBook gets a book by ID
func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooksOutput represents list output
type ListBooksOutput struct {
	Books []*models.Book `json:"books"`
	Total int64          `json:"total"`
}

// ListBooks lists all books
func (s *CatalogService) ListBooks(ctx context.Context, offset, limit int) (*ListBooksOutput, error) {
	books, total, err := s.bookRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Books: books, Total: total}, nil
}

// ListAvailable lists books currently available for lending
func (s *CatalogService) ListAvailable(ctx context.Context, offset, limit int) (*ListBooksOutput, error) {
	books, total, err := s.bookRepo.ListAvailable(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Books: books, Total: total}, nil
}
