package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
)

var FunkoSortable = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"quantity":  "quantity",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type FunkoFilter struct {
	Category    *string
	MaxPrice    *float64
	MaxQuantity *int
}

func (f FunkoFilter) Spec() Specification {
	var specs []Specification
	if f.Category != nil {
		specs = append(specs, InCategory(*f.Category))
	}
	if f.MaxPrice != nil {
		specs = append(specs, LessOrEqual("price", *f.MaxPrice))
	}
	if f.MaxQuantity != nil {
		specs = append(specs, LessOrEqual("quantity", *f.MaxQuantity))
	}
	return And(specs...)
}

// InCategory matches funkos whose category has the given type.
func InCategory(typ string) Specification {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.Category{}).
				Select("id").Where("type = ?", strings.ToUpper(typ)))
	}
}

type FunkoRepository struct {
	db  *gorm.DB
	now Clock
}

func NewFunkoRepository(db *gorm.DB, now Clock) *FunkoRepository {
	if now == nil {
		now = time.Now
	}
	return &FunkoRepository{db: db, now: now}
}

func (r *FunkoRepository) FindAll(ctx context.Context, spec Specification, req pagination.Request) (pagination.Page[models.Funko], error) {
	return findPage[models.Funko](ctx, r.db, spec, req, "Category")
}

func (r *FunkoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Funko, error) {
	var f models.Funko
	if err := r.db.WithContext(ctx).Preload("Category").First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// Create assigns an id when f has none.
func (r *FunkoRepository) Create(ctx context.Context, f *models.Funko) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := r.now()
	f.CreatedAt, f.UpdatedAt = now, now
	syncCategoryID(f)
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error)
}

func (r *FunkoRepository) Save(ctx context.Context, f *models.Funko) error {
	f.UpdatedAt = r.now()
	syncCategoryID(f)
	res := r.db.WithContext(ctx).Model(f).Select("*").Omit("id", "created_at", clause.Associations).Updates(f)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FunkoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Funko{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func syncCategoryID(f *models.Funko) {
	if f.Category.ID != 0 {
		f.CategoryID = f.Category.ID
	}
}
