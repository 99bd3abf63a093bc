package config

import (
	"log"

	"liblend/internal/adapters/persistence/models"
	"liblend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedBorrowers(); err != nil {
		log.Printf("⚠️ Borrower seeder skipped: %v", err)
	}
	if err := s.seedBooks(); err != nil {
		log.Printf("⚠️ Book seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default librarian account
// This is for development/testing only
// In production, create the admin through a secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("pass@1234")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Librarian",
		Email:    "admin@library.local",
		Password: hashedPassword,
		Role:     "ADMIN",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedBorrowers seeds sample borrower accounts for development.
// Every borrower gets a distinct email; the contact address is unique by
// contract and the seeder respects it.
func (s *Seeder) seedBorrowers() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "BORROWER").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("password123")
	if err != nil {
		return err
	}

	borrowers := []models.User{
		{Name: "Om Kulkarni", Email: "omkulkarni@email.com", Password: hashedPassword, Role: "BORROWER"},
		{Name: "Pratik Kamble", Email: "pratikkamble@email.com", Password: hashedPassword, Role: "BORROWER"},
		{Name: "Aditya Shinde", Email: "adityashinde@email.com", Password: hashedPassword, Role: "BORROWER"},
		{Name: "Shruti Patil", Email: "shrutipatil@email.com", Password: hashedPassword, Role: "BORROWER"},
		{Name: "Sachin Deshmukh", Email: "sachindeshmukh@email.com", Password: hashedPassword, Role: "BORROWER"},
	}

	if err := s.db.Create(&borrowers).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d sample borrowers", len(borrowers))
	return nil
}

// seedBooks seeds the sample catalog
func (s *Seeder) seedBooks() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil
	}

	books := []models.Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0-7432-7356-5", Available: true},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0-06-112008-4", Available: true},
		{Title: "1984", Author: "George Orwell", ISBN: "978-0-452-28423-4", Available: true},
		{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "978-0-14-143951-8", Available: true},
		{Title: "The Catcher in the Rye", Author: "J.D. Salinger", ISBN: "978-0-316-76948-0", Available: true},
	}

	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d sample books", len(books))
	return nil
}
