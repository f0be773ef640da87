package database

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/NewTime-Creator/radio-app/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Users{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedAdminUser(t *testing.T) {
	db := setupDB(t)

	SeedAdminUser(db, "hunter2hunter2")

	var user models.Users
	if err := db.Where("username = ?", "admin").First(&user).Error; err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if user.Role != "admin" {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Fatal("stored hash does not match the password")
	}
}

func TestSeedAdminUserIdempotent(t *testing.T) {
	db := setupDB(t)

	SeedAdminUser(db, "first-password")
	SeedAdminUser(db, "second-password")

	var count int64
	db.Model(&models.Users{}).Where("username = ?", "admin").Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 admin row, got %d", count)
	}

	// The original password still works; reseeding never rotates it.
	var user models.Users
	db.Where("username = ?", "admin").First(&user)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("first-password")); err != nil {
		t.Fatal("reseed overwrote the existing admin")
	}
}

func TestSeedAdminUserSkippedWithoutPassword(t *testing.T) {
	db := setupDB(t)

	SeedAdminUser(db, "")

	var count int64
	db.Model(&models.Users{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no users, got %d", count)
	}
}
