package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/auth"
	"github.com/scholarhub/api/utils/localized"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedUniversities(); err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	if err := s.SeedScholarships(); err != nil {
		return fmt.Errorf("failed to seed scholarships: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "Platform Admin",
		Role:         model.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user %s", adminEmail)
	return nil
}

// SeedUniversities creates a couple of verified institutions for development
func (s *Seeder) SeedUniversities() error {
	var count int64
	if err := s.db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Universities already exist, skipping...")
		return nil
	}

	universities := []model.University{
		{
			Name:       "Tashkent International University",
			Email:      "admissions@tiu.example.edu",
			Website:    "https://tiu.example.edu",
			IsVerified: true,
		},
		{
			Name:       "Northfield State University",
			Email:      "scholarships@northfield.example.edu",
			Website:    "https://northfield.example.edu",
			IsVerified: true,
		},
		{
			Name:       "Riverside College",
			Email:      "info@riverside.example.edu",
			Website:    "https://riverside.example.edu",
			IsVerified: false,
		},
	}
	if err := s.db.Create(&universities).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d universities", len(universities))
	return nil
}

// SeedScholarships creates sample listings for development
func (s *Seeder) SeedScholarships() error {
	var count int64
	if err := s.db.Model(&model.Scholarship{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Scholarships already exist, skipping...")
		return nil
	}

	var universities []model.University
	if err := s.db.Where("is_verified = ?", true).Find(&universities).Error; err != nil {
		return err
	}
	if len(universities) == 0 {
		log.Println("⚠️  No verified universities found, skipping scholarship seed")
		return nil
	}

	deadline := time.Now().AddDate(0, 6, 0)
	scholarships := []model.Scholarship{
		{
			Slug: services.Slugify("Global Excellence Scholarship"),
			Title: localized.Map(map[string]string{
				"en": "Global Excellence Scholarship",
				"uz": "Global mukammallik stipendiyasi",
			}),
			Description:     "Full tuition coverage for outstanding international applicants.",
			UniversityID:    &universities[0].ID,
			ProviderName:    universities[0].Name,
			Amount:          45000,
			Currency:        "USD",
			Deadline:        &deadline,
			TargetCountry:   "Uzbekistan",
			DegreeLevel:     "Master of Science",
			FieldOfStudy:    pq.StringArray{"Computer Science", "Engineering"},
			EligibleRegions: pq.StringArray{"Central Asia"},
			OfficialWebsite: universities[0].Website,
			IsFeatured:      true,
		},
		{
			Slug:            services.Slugify("Undergraduate Merit Award"),
			Title:           localized.Plain("Undergraduate Merit Award"),
			Description:     "Partial tuition award for high-achieving undergraduate students.",
			UniversityID:    &universities[len(universities)-1].ID,
			ProviderName:    universities[len(universities)-1].Name,
			Amount:          8000,
			Currency:        "USD",
			TargetCountry:   "United States",
			DegreeLevel:     "Bachelor",
			FieldOfStudy:    pq.StringArray{"Business", "Economics"},
			EligibleRegions: pq.StringArray{"Worldwide"},
		},
	}
	if err := s.db.Create(&scholarships).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d scholarships", len(scholarships))
	return nil
}
