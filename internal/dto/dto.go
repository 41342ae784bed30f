// Package dto holds the request and response shapes of the HTTP API and
// validates incoming bodies.
package dto

import (
	"time"

	"github.com/google/uuid"

	"funkosrest/internal/models"
)

type CategoryCreate struct {
	Type   string `json:"type" validate:"notblank"`
	Active *bool  `json:"active" validate:"required"`
}

// CategoryUpdate replaces every writable field.
type CategoryUpdate = CategoryCreate

type CategoryPatch struct {
	Type   *string `json:"type" validate:"omitempty,notblank"`
	Active *bool   `json:"active"`
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FunkoCreate struct {
	Name       string   `json:"name" validate:"notblank"`
	Price      *float64 `json:"price" validate:"required,gte=0"`
	Quantity   *int     `json:"quantity" validate:"required,gte=0"`
	Image      string   `json:"image" validate:"notblank"`
	CategoryID *int64   `json:"categoryId" validate:"required"`
}

type FunkoUpdate = FunkoCreate

type FunkoPatch struct {
	Name       *string  `json:"name" validate:"omitempty,notblank"`
	Price      *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity   *int     `json:"quantity" validate:"omitempty,gte=0"`
	Image      *string  `json:"image" validate:"omitempty,notblank"`
	CategoryID *int64   `json:"categoryId"`
}

type FunkoResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Price     float64          `json:"price"`
	Quantity  int              `json:"quantity"`
	Image     string           `json:"image"`
	Category  CategoryResponse `json:"category"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// FunkoNotification is the payload of funko change notifications; every
// field is rendered as a string.
type FunkoNotification struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  string `json:"quantity"`
	Image     string `json:"image"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type UserCreate struct {
	Name     string   `json:"name" validate:"notblank"`
	Surname  string   `json:"surname" validate:"notblank"`
	Username string   `json:"username" validate:"notblank"`
	Email    string   `json:"email" validate:"notblank,email"`
	Password string   `json:"password" validate:"notblank,min=5"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=USER ADMIN"`
	// IsDeleted is ignored on create.
	IsDeleted bool `json:"isDeleted"`
}

// UserUpdate leaves the password unchanged when it is empty.
type UserUpdate struct {
	Name      string   `json:"name" validate:"notblank"`
	Surname   string   `json:"surname" validate:"notblank"`
	Username  string   `json:"username" validate:"notblank"`
	Email     string   `json:"email" validate:"notblank,email"`
	Password  string   `json:"password" validate:"omitempty,min=5"`
	Roles     []string `json:"roles" validate:"omitempty,dive,oneof=USER ADMIN"`
	IsDeleted *bool    `json:"isDeleted"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SignUp struct {
	Name           string `json:"name" validate:"notblank"`
	Surname        string `json:"surname" validate:"notblank"`
	Username       string `json:"username" validate:"notblank"`
	Email          string `json:"email" validate:"notblank,email"`
	Password       string `json:"password" validate:"notblank,min=5"`
	PasswordRepeat string `json:"passwordRepeat" validate:"notblank,min=5"`
}

type SignIn struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type JWTResponse struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	Logged     bool       `json:"logged"`
	LoginCount int        `json:"loginCount"`
	LastLogin  *time.Time `json:"lastLogin"`
}

// RoleNames defaults an empty role list to USER.
func RoleNames(roles []string) []string {
	if len(roles) == 0 {
		return []string{models.RoleUser}
	}
	seen := make(map[string]bool, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
