package database

import (
	"os"
	"time"

	"devzora-control-center/internal/logger"
	"devzora-control-center/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		logger.Log.Info().Int("attempt", i).Int("max", maxAttempts).Msg("connecting to DB")

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			logger.Log.Info().Msg("connected to DB")
			break
		}

		logger.Log.Warn().Err(err).Msg("failed to connect to DB")
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		logger.Log.Fatal().Err(err).Int("attempts", maxAttempts).Msg("giving up connecting to DB")
	}

	if err := Migrate(DB); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to migrate")
	}

	createDefaultAdmin()
}

// Migrate runs the schema migrations for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.APIToken{},
		&models.Client{},
		&models.Project{},
		&models.Milestone{},
		&models.Subscription{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSequence{},
		&models.Budget{},
		&models.BudgetItem{},
		&models.Appointment{},
		&models.AuditLog{},
	)
}

// admin only from code/config
func createDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@devzora.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		logger.Log.Warn().Err(err).Msg("failed to check admin user")
		return
	}
	if count > 0 {
		// admin already exists
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("failed to hash default admin password")
		return
	}

	admin := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		logger.Log.Warn().Err(err).Msg("failed to create default admin")
		return
	}

	logger.Log.Info().Str("email", email).Msg("created default admin user")
}
