// Package repository is the persistence boundary. Repositories own the
// created/updated timestamps of the rows they write and translate storage
// failures into the sentinel errors below.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funkosrest/internal/pagination"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write breaks a foreign key.
	ErrReferenced = errors.New("referenced record missing or in use")
)

// Clock returns the time used for created/updated timestamps.
type Clock func() time.Time

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenced
	default:
		return err
	}
}

// findPage counts the rows matching spec and loads the requested slice.
func findPage[T any](ctx context.Context, db *gorm.DB, spec Specification, req pagination.Request, preload ...string) (pagination.Page[T], error) {
	var model T
	base := db.WithContext(ctx).Model(&model)
	if spec != nil {
		base = base.Scopes(spec)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pagination.Page[T]{}, err
	}

	q := base.Session(&gorm.Session{})
	for _, p := range preload {
		q = q.Preload(p)
	}
	var rows []T
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: req.Column}, Desc: req.Desc()}).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&rows).Error
	if err != nil {
		return pagination.Page[T]{}, err
	}
	return pagination.Page[T]{Content: rows, Number: req.Page, Size: req.Size, TotalElements: total}, nil
}
