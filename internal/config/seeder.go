package config

import (
	"errors"
	"log"
	"time"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/pkg/password"

	"gorm.io/gorm"
)

// seedGate serializes the one-time seeding routine. Acquiring it has a
// bounded wait: if the gate is still held after seedWait, the caller
// assumes another instance is seeding and skips.
var seedGate = make(chan struct{}, 1)

const seedWait = 5 * time.Second

// ErrSeedingInProgress is returned when the seed gate could not be
// acquired within the bounded wait.
var ErrSeedingInProgress = errors.New("seeding already in progress, skipped")

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders under the seed gate. Each seeder is
// idempotent (first-or-create per row), so a rerun is harmless.
func (s *Seeder) Run() error {
	select {
	case seedGate <- struct{}{}:
		defer func() { <-seedGate }()
	case <-time.After(seedWait):
		log.Println("⚠️ Seed gate busy, assuming another instance is seeding")
		return ErrSeedingInProgress
	}

	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if s.cfg.IsDev() {
		if err := s.seedSampleBooks(); err != nil {
			log.Printf("⚠️ Sample book seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles seeds the static role set
func (s *Seeder) seedRoles() error {
	names := []string{
		models.RoleAdmin,
		models.RoleManager,
		models.RoleUser,
		models.RoleGuest,
	}

	for _, name := range names {
		role := models.Role{Name: name}
		if err := s.db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser seeds the default administrator account.
// In production the password must come from ADMIN_PASSWORD.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	adminPass := getEnv("ADMIN_PASSWORD", "")
	if adminPass == "" {
		if s.cfg.IsProd() {
			log.Println("⚠️ Skipping admin seed: ADMIN_PASSWORD not set")
			return nil
		}
		adminPass = "admin123456"
	}

	hashedPassword, err := password.Hash(adminPass)
	if err != nil {
		return err
	}

	var adminRole models.Role
	if err := s.db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	admin := &models.User{
		Email:    getEnv("ADMIN_EMAIL", "admin@librahub.io"),
		Name:     "Administrator",
		Password: hashedPassword,
		IsActive: true,
		Roles:    []models.Role{adminRole},
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedSampleBooks seeds a handful of catalog entries for development
func (s *Seeder) seedSampleBooks() error {
	books := []models.Book{
		{
			Name:        "The Go Programming Language",
			Author:      "Alan A. A. Donovan",
			Description: "The authoritative resource for writing clear, idiomatic Go.",
			Genre:       "Programming",
			Type:        models.BookTypePaper,
			Year:        2015,
			IsAvailable: true,
		},
		{
			Name:        "Designing Data-Intensive Applications",
			Author:      "Martin Kleppmann",
			Description: "The big ideas behind reliable, scalable and maintainable systems.",
			Genre:       "Programming",
			Type:        models.BookTypePaper,
			Year:        2017,
			IsAvailable: true,
		},
		{
			Name:        "The Name of the Wind",
			Author:      "Patrick Rothfuss",
			Description: "The tale of Kvothe, from his childhood in a troupe of travelling players.",
			Genre:       "Fantasy",
			Type:        models.BookTypeElectronic,
			Year:        2007,
			IsAvailable: true,
		},
	}

	for _, b := range books {
		var existing models.Book
		err := s.db.Where("name = ? AND author = ?", b.Name, b.Author).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := s.db.Create(&b).Error; err != nil {
					return err
				}
				log.Printf("   Created book: %s", b.Name)
			}
		}
	}
	return nil
}
