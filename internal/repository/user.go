package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
)

var UserSortable = map[string]string{
	"id":        "id",
	"username":  "username",
	"email":     "email",
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type UserFilter struct {
	Username  *string
	Email     *string
	IsDeleted *bool
}

func (f UserFilter) Spec() Specification {
	var specs []Specification
	if f.Username != nil {
		specs = append(specs, ContainsFold("username", *f.Username))
	}
	if f.Email != nil {
		specs = append(specs, ContainsFold("email", *f.Email))
	}
	if f.IsDeleted != nil {
		specs = append(specs, Equal("is_deleted", *f.IsDeleted))
	}
	return And(specs...)
}

type UserRepository struct {
	db  *gorm.DB
	now Clock
}

func NewUserRepository(db *gorm.DB, now Clock) *UserRepository {
	if now == nil {
		now = time.Now
	}
	return &UserRepository{db: db, now: now}
}

func (r *UserRepository) FindAll(ctx context.Context, spec Specification, req pagination.Request) (pagination.Page[models.User], error) {
	return findPage[models.User](ctx, r.db, spec, req, "Roles")
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByUsernameOrEmail returns every user holding either key, ignoring case.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", strings.ToLower(username), strings.ToLower(email)).
		Find(&users).Error
	return users, err
}

// FindRoles loads roles by name.
func (r *UserRepository) FindRoles(ctx context.Context, names ...string) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Where("name IN ?", names).Order("id").Find(&roles).Error
	return roles, err
}

// Create inserts u and links its (already persisted) roles.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	return translate(r.db.WithContext(ctx).Omit("Roles.*").Create(u).Error)
}

// Save writes u's columns and replaces its role links.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	u.UpdatedAt = r.now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(u).Select("*").Omit("id", "created_at", "Roles").Updates(u)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return translate(tx.Model(u).Omit("Roles.*").Association("Roles").Replace(u.Roles))
	})
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Select("Roles").Delete(&models.User{ID: id})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
