package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funkosrest/internal/auth"
	"funkosrest/internal/models"
)

// DefaultCategories are created on first start.
var DefaultCategories = []string{"SERIE", "DISNEY", "SUPERHEROS", "MOVIE", "OTHER"}

type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Seed inserts roles, default categories and the admin account. It is
// idempotent and never overwrites existing rows.
func Seed(ctx context.Context, db *gorm.DB, admin AdminSeed, lg *zap.SugaredLogger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range []string{models.RoleUser, models.RoleAdmin} {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Role{Name: name}).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
		}

		now := time.Now()
		for _, typ := range DefaultCategories {
			c := models.Category{Type: typ, Active: true, CreatedAt: now, UpdatedAt: now}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", typ, err)
			}
		}

		var existing models.User
		err := tx.Where("LOWER(username) = ?", strings.ToLower(admin.Username)).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var roles []models.Role
		if err := tx.Where("name IN ?", []string{models.RoleUser, models.RoleAdmin}).Find(&roles).Error; err != nil {
			return err
		}
		hash, err := auth.HashPassword(admin.Password)
		if err != nil {
			return err
		}
		u := models.User{
			ID:           uuid.New(),
			Name:         "Admin",
			Surname:      "Admin",
			Username:     admin.Username,
			Email:        strings.ToLower(admin.Email),
			PasswordHash: hash,
			Roles:        roles,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&u).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if lg != nil {
			lg.Infow("seeded default admin", "username", u.Username)
		}
		return nil
	})
}
