package main

import (
	"log"
	"strings"

	"imagencali/internal/config"
	"imagencali/internal/database"
	"imagencali/internal/domain"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Bootstraps the admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
// Safe to run repeatedly: an existing account is left untouched.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatal(err)
	}
	if count > 0 {
		log.Printf("Admin already exists: %s", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 12)
	if err != nil {
		log.Fatal(err)
	}

	admin := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal(err)
	}
	log.Printf("Admin created: %s", email)
}
