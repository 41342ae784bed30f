package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	// DefaultFunkoImage is used when a funko is stored without an image.
	DefaultFunkoImage = "https://www.madirex.com/favicon.ico"
)

// Timestamps are written by the repositories, never by gorm callbacks.

type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      string    `gorm:"uniqueIndex;not null;size:64" json:"type"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"updatedAt"`
}

type Funko struct {
	ID         uuid.UUID `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Price      float64   `gorm:"not null" json:"price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Image      string    `gorm:"not null" json:"image"`
	CategoryID int64     `gorm:"not null;index" json:"categoryId"`
	Category   Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false;not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false;not null" json:"updatedAt"`
}

type Role struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Surname      string    `gorm:"not null" json:"surname"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsDeleted    bool      `gorm:"not null;default:false" json:"isDeleted"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false;not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false;not null" json:"updatedAt"`
}

// Subject is the identity embedded in tokens issued for u.
func (u *User) Subject() string { return u.Username }

func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
