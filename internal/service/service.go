// Package service holds the use cases behind the HTTP handlers. Services
// translate repository errors into apperr kinds and bound list requests
// with the pagination validator.
package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"funkosrest/internal/apperr"
	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
)

type CategoryStore interface {
	FindAll(ctx context.Context, spec repository.Specification, req pagination.Request) (pagination.Page[models.Category], error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindByType(ctx context.Context, typ string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Save(ctx context.Context, c *models.Category) error
}

type FunkoStore interface {
	FindAll(ctx context.Context, spec repository.Specification, req pagination.Request) (pagination.Page[models.Funko], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Funko, error)
	Create(ctx context.Context, f *models.Funko) error
	Save(ctx context.Context, f *models.Funko) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	FindAll(ctx context.Context, spec repository.Specification, req pagination.Request) (pagination.Page[models.User], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) ([]models.User, error)
	FindRoles(ctx context.Context, names ...string) ([]models.Role, error)
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const invalidUUIDMsg = "El UUID no tiene un formato válido"

func parseUUID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.InvalidUUID(invalidUUIDMsg)
	}
	return u, nil
}

func parseCategoryID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("ID de categoría no válido: " + id)
	}
	return n, nil
}

// checkPage rejects requests for pages past the end of the result.
func checkPage[T any](p pagination.Page[T]) error {
	return p.Validate()
}

// storeErr maps a repository error; notFound builds the kind-specific 404.
func storeErr(err error, notFound func() error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound()
	case errors.Is(err, repository.ErrReferenced):
		return apperr.BadRequest("La entidad relacionada no existe o está en uso")
	default:
		if _, ok := apperr.As(err); ok {
			return err
		}
		return apperr.Internal(err)
	}
}
