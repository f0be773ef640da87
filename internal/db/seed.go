package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NewTime-Creator/radio-app/internal/models"
)

// SeedAdminUser makes sure at least one admin login exists so the
// control panel is reachable on a fresh database. The password comes
// from RADIO_AUTH_ADMIN_PASSWORD; when unset no user is created.
func SeedAdminUser(db *gorm.DB, password string) {
	if password == "" {
		log.Println("⚠️ RADIO_AUTH_ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("⚠️ Failed to hash admin password: %v", err)
		return
	}

	admin := models.Users{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	// Upsert on username so restarts never duplicate or rotate it
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&admin)

	log.Println("🌱 Admin user ready (username: admin)")
}
