// Package mapper converts between wire DTOs and persisted models. All
// functions are pure; related entities are resolved by the caller.
package mapper

import (
	"strconv"
	"strings"

	"funkosrest/internal/dto"
	"funkosrest/internal/models"
	"funkosrest/internal/notification"
)

func ToCategory(in dto.CategoryCreate) models.Category {
	return models.Category{Type: strings.ToUpper(strings.TrimSpace(in.Type)), Active: *in.Active}
}

// ApplyCategoryUpdate replaces the writable fields of c.
func ApplyCategoryUpdate(c *models.Category, in dto.CategoryUpdate) {
	c.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	c.Active = *in.Active
}

// ApplyCategoryPatch copies the fields present in in.
func ApplyCategoryPatch(c *models.Category, in dto.CategoryPatch) {
	if in.Type != nil {
		c.Type = strings.ToUpper(strings.TrimSpace(*in.Type))
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
}

func ToCategoryResponse(c models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:        c.ID,
		Type:      c.Type,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToFunko builds a new funko in category.
func ToFunko(in dto.FunkoCreate, category models.Category) models.Funko {
	return models.Funko{
		Name:       strings.TrimSpace(in.Name),
		Price:      *in.Price,
		Quantity:   *in.Quantity,
		Image:      in.Image,
		CategoryID: category.ID,
		Category:   category,
	}
}

func ApplyFunkoUpdate(f *models.Funko, in dto.FunkoUpdate, category models.Category) {
	f.Name = strings.TrimSpace(in.Name)
	f.Price = *in.Price
	f.Quantity = *in.Quantity
	f.Image = in.Image
	f.CategoryID = category.ID
	f.Category = category
}

// ApplyFunkoPatch copies the present fields. category is nil unless the
// patch moves the funko to another category.
func ApplyFunkoPatch(f *models.Funko, in dto.FunkoPatch, category *models.Category) {
	if in.Name != nil {
		f.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		f.Price = *in.Price
	}
	if in.Quantity != nil {
		f.Quantity = *in.Quantity
	}
	if in.Image != nil {
		f.Image = *in.Image
	}
	if category != nil {
		f.CategoryID = category.ID
		f.Category = *category
	}
}

func ToFunkoResponse(f models.Funko) dto.FunkoResponse {
	return dto.FunkoResponse{
		ID:        f.ID,
		Name:      f.Name,
		Price:     f.Price,
		Quantity:  f.Quantity,
		Image:     f.Image,
		Category:  ToCategoryResponse(f.Category),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func ToFunkoNotification(f models.Funko) dto.FunkoNotification {
	return dto.FunkoNotification{
		ID:        f.ID.String(),
		Name:      f.Name,
		Price:     strconv.FormatFloat(f.Price, 'f', -1, 64),
		Quantity:  strconv.Itoa(f.Quantity),
		Image:     f.Image,
		Category:  f.Category.Type,
		CreatedAt: f.CreatedAt.Format(notification.TimeLayout),
		UpdatedAt: f.UpdatedAt.Format(notification.TimeLayout),
	}
}

// ToUser builds a user from a create request. passwordHash is already hashed.
func ToUser(in dto.UserCreate, passwordHash string, roles []models.Role) models.User {
	return models.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		PasswordHash: passwordHash,
		Roles:        roles,
	}
}

func SignUpToUser(in dto.SignUp, passwordHash string, roles []models.Role) models.User {
	return models.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		PasswordHash: passwordHash,
		Roles:        roles,
	}
}

// ApplyUserUpdate copies the update onto u. An empty passwordHash keeps the
// current password; nil roles keep the current roles.
func ApplyUserUpdate(u *models.User, in dto.UserUpdate, passwordHash string, roles []models.Role) {
	u.Name = in.Name
	u.Surname = in.Surname
	u.Username = in.Username
	u.Email = strings.ToLower(in.Email)
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
	if roles != nil {
		u.Roles = roles
	}
	if in.IsDeleted != nil {
		u.IsDeleted = *in.IsDeleted
	}
}

func ToUserResponse(u models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.RoleNames(),
		IsDeleted: u.IsDeleted,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
