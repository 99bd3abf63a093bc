package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleBorrower Role = "BORROWER"
	RoleAdmin    Role = "ADMIN"
)

// ActorContext is the authenticated identity attached to an incoming command.
// It is built once at the HTTP boundary from verified token claims and passed
// explicitly into every core call; services never read ambient identity.
type ActorContext struct {
	ID   uint
	Role Role
}

// IsAdmin returns true if the actor holds the ADMIN role
func (a ActorContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Book represents a lendable book in the domain layer.
// Each book is a single physical copy. Available mirrors the absence of an
// open loan; only the loan ledger may flip it.
type Book struct {
	ID        uint
	Title     string
	Author    string
	ISBN      string
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User represents a borrower or administrator in the domain layer
type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string // Hashed
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Loan represents one lending interval of one book to one borrower.
// A nil ReturnedAt means the loan is open; a book has at most one open loan.
type Loan struct {
	ID         uint
	BookID     uint
	BorrowerID uint
	IssuedAt   time.Time
	ReturnedAt *time.Time
}

// IsOpen returns true if the loan has not been returned
func (l *Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
