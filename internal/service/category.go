package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/dto"
	"funkosrest/internal/mapper"
	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
)

const (
	categoryNotFoundMsg = "No se ha encontrado el Category con el ID indicado"
	categoryExistsMsg   = "Ya existe una categoría con ese tipo"
)

type CategoryService struct {
	repo     CategoryStore
	lg       *zap.SugaredLogger
	onChange []func(ctx context.Context, id int64)
}

func NewCategoryService(repo CategoryStore, lg *zap.SugaredLogger) *CategoryService {
	return &CategoryService{repo: repo, lg: lg}
}

// OnChange registers fn to run after a category is modified or deactivated.
// Not safe to call concurrently with requests; register during wiring.
func (s *CategoryService) OnChange(fn func(ctx context.Context, id int64)) {
	s.onChange = append(s.onChange, fn)
}

func categoryNotFound() error { return apperr.CategoryNotFound(categoryNotFoundMsg) }

func (s *CategoryService) FindAll(ctx context.Context, f repository.CategoryFilter, req pagination.Request) (pagination.Page[dto.CategoryResponse], error) {
	p, err := s.repo.FindAll(ctx, f.Spec(), req)
	if err != nil {
		return pagination.Page[dto.CategoryResponse]{}, apperr.Internal(err)
	}
	if err := checkPage(p); err != nil {
		return pagination.Page[dto.CategoryResponse]{}, err
	}
	return pagination.Map(p, mapper.ToCategoryResponse), nil
}

func (s *CategoryService) FindByID(ctx context.Context, id string) (dto.CategoryResponse, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapper.ToCategoryResponse(*c), nil
}

// Resolve loads an active or inactive category for another entity to reference.
func (s *CategoryService) Resolve(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, categoryNotFound)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in dto.CategoryCreate) (dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.CategoryResponse{}, err
	}
	c := mapper.ToCategory(in)
	if err := s.ensureTypeFree(ctx, c.Type, 0); err != nil {
		return dto.CategoryResponse{}, err
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.CategoryResponse{}, apperr.CategoryAlreadyExists(categoryExistsMsg)
		}
		return dto.CategoryResponse{}, apperr.Internal(err)
	}
	s.lg.Infow("category created", "id", c.ID, "type", c.Type)
	return mapper.ToCategoryResponse(c), nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in dto.CategoryUpdate) (dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.CategoryResponse{}, err
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	mapper.ApplyCategoryUpdate(c, in)
	return s.save(ctx, c)
}

func (s *CategoryService) Patch(ctx context.Context, id string, in dto.CategoryPatch) (dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.CategoryResponse{}, err
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	mapper.ApplyCategoryPatch(c, in)
	return s.save(ctx, c)
}

// Delete deactivates the category; funkos keep referencing it.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	c.Active = false
	if _, err := s.save(ctx, c); err != nil {
		return err
	}
	s.lg.Infow("category deactivated", "id", c.ID)
	return nil
}

func (s *CategoryService) get(ctx context.Context, id string) (*models.Category, error) {
	n, err := parseCategoryID(id)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, n)
}

func (s *CategoryService) save(ctx context.Context, c *models.Category) (dto.CategoryResponse, error) {
	if err := s.ensureTypeFree(ctx, c.Type, c.ID); err != nil {
		return dto.CategoryResponse{}, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.CategoryResponse{}, apperr.CategoryAlreadyExists(categoryExistsMsg)
		}
		return dto.CategoryResponse{}, storeErr(err, categoryNotFound)
	}
	for _, fn := range s.onChange {
		fn(ctx, c.ID)
	}
	return mapper.ToCategoryResponse(*c), nil
}

// ensureTypeFree fails when another category than self already has typ.
func (s *CategoryService) ensureTypeFree(ctx context.Context, typ string, self int64) error {
	existing, err := s.repo.FindByType(ctx, typ)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return apperr.Internal(err)
	case existing.ID != self:
		return apperr.CategoryAlreadyExists(categoryExistsMsg)
	}
	return nil
}
