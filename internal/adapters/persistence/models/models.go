package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity Tables
// ============================================================

// User represents users table (borrowers and administrators)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;default:'BORROWER'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog & Ledger Tables
// ============================================================

// Book represents books table. Available is a denormalized mirror of
// "no open loan references this book"; the two are only ever written
// together inside one ledger transaction.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Author    string    `gorm:"size:100;not null" json:"author"`
	ISBN      string    `gorm:"size:30;uniqueIndex;not null" json:"isbn"`
	Available bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookResponse DTO
type BookResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Available: b.Available,
		CreatedAt: b.CreatedAt,
	}
}

// Loan represents loans table. ReturnedAt IS NULL marks the open loan;
// at most one open loan exists per book.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"index;not null" json:"book_id"`
	BorrowerID uint       `gorm:"index;not null" json:"borrower_id"`
	IssuedAt   time.Time  `gorm:"not null" json:"issued_at"`
	ReturnedAt *time.Time `gorm:"index" json:"returned_at"`

	// Relations
	Book     *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Borrower *User `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}

// LoanResponse DTO
type LoanResponse struct {
	ID           uint       `json:"id"`
	BookID       uint       `json:"book_id"`
	BookTitle    string     `json:"book_title,omitempty"`
	BookAuthor   string     `json:"book_author,omitempty"`
	BorrowerID   uint       `json:"borrower_id"`
	BorrowerName string     `json:"borrower_name,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
	ReturnedAt   *time.Time `json:"returned_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		BorrowerID: l.BorrowerID,
		IssuedAt:   l.IssuedAt,
		ReturnedAt: l.ReturnedAt,
	}

	if l.Book != nil {
		resp.BookTitle = l.Book.Title
		resp.BookAuthor = l.Book.Author
	}
	if l.Borrower != nil {
		resp.BorrowerName = l.Borrower.Name
	}

	return resp
}

// BorrowerRank is one row of the top-borrowers report
type BorrowerRank struct {
	BorrowerID uint   `json:"borrower_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	LoanCount  int64  `json:"loan_count"`
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Book{},
		&Loan{},
	)
}
