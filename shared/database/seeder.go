package database

import (
	"log"

	"github.com/google/uuid"

	"autovista-backend/shared/config"
	"autovista-backend/shared/database/models"
	"autovista-backend/shared/database/models/auth"
	utils "autovista-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	created, err := seedSuperAdmin()
	if err != nil {
		return err
	}

	if created {
		log.Println("✅ Database seeding completed (super admin created)")
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

// CreateAdminUser creates an admin user together with its zero-valued
// security record
func CreateAdminUser(email, firstName, lastName string) (*models.User, error) {
	var existing models.User
	if err := DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Status:    "ACTIVE",
	}

	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	record := auth.UserSecurityRecord{
		ID:     uuid.New(),
		UserID: user.ID,
	}

	if err := DB.Create(&record).Error; err != nil {
		return nil, err
	}

	log.Printf("👤 Admin user created: %s", email)
	return &user, nil
}

func seedSuperAdmin() (bool, error) {
	email := config.GetConfig().SuperAdminEmail

	var count int64
	DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return false, nil
	}

	user, err := CreateAdminUser(email, "Super", "Admin")
	if err != nil {
		return false, err
	}

	// Development convenience: the IdP issues real tokens, but a freshly
	// seeded database has no IdP session to bootstrap API calls with.
	if token, err := utils.GenerateJWT(user.ID, user.Email); err == nil {
		log.Printf("🔑 Development bearer token for %s: %s", email, token)
	}

	return true, nil
}
