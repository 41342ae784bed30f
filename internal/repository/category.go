package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
)

// CategorySortable maps sortBy values to columns.
var CategorySortable = map[string]string{
	"id":        "id",
	"type":      "type",
	"active":    "active",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type CategoryFilter struct {
	Type     *string
	IsActive *bool
}

// Spec builds the conjunction of the set fields.
func (f CategoryFilter) Spec() Specification {
	var specs []Specification
	if f.Type != nil {
		specs = append(specs, Equal("type", strings.ToUpper(*f.Type)))
	}
	if f.IsActive != nil {
		specs = append(specs, Equal("active", *f.IsActive))
	}
	return And(specs...)
}

type CategoryRepository struct {
	db  *gorm.DB
	now Clock
}

func NewCategoryRepository(db *gorm.DB, now Clock) *CategoryRepository {
	if now == nil {
		now = time.Now
	}
	return &CategoryRepository{db: db, now: now}
}

func (r *CategoryRepository) FindAll(ctx context.Context, spec Specification, req pagination.Request) (pagination.Page[models.Category], error) {
	return findPage[models.Category](ctx, r.db, spec, req)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindByType matches ignoring case; types are stored upper-case.
func (r *CategoryRepository) FindByType(ctx context.Context, typ string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("type = ?", strings.ToUpper(typ)).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	now := r.now()
	c.Type = strings.ToUpper(c.Type)
	c.CreatedAt, c.UpdatedAt = now, now
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// Save writes every column of c and stamps UpdatedAt.
func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	c.Type = strings.ToUpper(c.Type)
	c.UpdatedAt = r.now()
	res := r.db.WithContext(ctx).Model(c).Select("*").Omit("id", "created_at").Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
