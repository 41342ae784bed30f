package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/auth"
	"funkosrest/internal/dto"
	"funkosrest/internal/mapper"
	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
)

const (
	userNotFoundMsg = "No se ha encontrado el usuario con el UUID indicado"
	userExistsMsg   = "Ya existe un usuario con ese username o email"
)

func userNotFound() error { return apperr.UserNotFound(userNotFoundMsg) }

type UserService struct {
	repo UserStore
	lg   *zap.SugaredLogger
}

func NewUserService(repo UserStore, lg *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, lg: lg}
}

func (s *UserService) FindAll(ctx context.Context, f repository.UserFilter, req pagination.Request) (pagination.Page[dto.UserResponse], error) {
	p, err := s.repo.FindAll(ctx, f.Spec(), req)
	if err != nil {
		return pagination.Page[dto.UserResponse]{}, apperr.Internal(err)
	}
	if err := checkPage(p); err != nil {
		return pagination.Page[dto.UserResponse]{}, err
	}
	return pagination.Map(p, mapper.ToUserResponse), nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (dto.UserResponse, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return mapper.ToUserResponse(*u), nil
}

// FindByUsername implements auth.UserLookup.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeErr(err, func() error { return apperr.UserNotFound(username) })
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in dto.UserCreate) (dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.ensureFree(ctx, in.Username, in.Email, uuid.Nil); err != nil {
		return dto.UserResponse{}, err
	}
	roles, err := s.roles(ctx, in.Roles)
	if err != nil {
		return dto.UserResponse{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return dto.UserResponse{}, apperr.Internal(err)
	}
	u := mapper.ToUser(in, hash, roles)
	if err := s.insert(ctx, &u); err != nil {
		return dto.UserResponse{}, err
	}
	return mapper.ToUserResponse(u), nil
}

func (s *UserService) Update(ctx context.Context, id string, in dto.UserUpdate) (dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.UserResponse{}, err
	}
	u, err := s.get(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	var roles []models.Role
	if len(in.Roles) > 0 {
		if roles, err = s.roles(ctx, in.Roles); err != nil {
			return dto.UserResponse{}, err
		}
	}
	return s.update(ctx, u, in, roles)
}

// UpdateProfile lets a user edit their own account. Roles and the deleted
// flag are not theirs to change.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in dto.UserUpdate) (dto.UserResponse, error) {
	in.Roles = nil
	in.IsDeleted = nil
	return s.Update(ctx, id.String(), in)
}

// Delete removes the user, or only marks it deleted when soft is set.
func (s *UserService) Delete(ctx context.Context, id string, soft bool) error {
	u, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if soft {
		u.IsDeleted = true
		if err := s.repo.Save(ctx, u); err != nil {
			return storeErr(err, userNotFound)
		}
		s.lg.Infow("user marked deleted", "id", u.ID)
		return nil
	}
	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return storeErr(err, userNotFound)
	}
	s.lg.Infow("user deleted", "id", u.ID)
	return nil
}

// Register creates a USER account from a signup request.
func (s *UserService) Register(ctx context.Context, in dto.SignUp) (*models.User, error) {
	roles, err := s.roles(ctx, nil)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := mapper.SignUpToUser(in, hash, roles)
	if err := s.insert(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Taken reports whether username or email already belongs to a user other than self.
func (s *UserService) Taken(ctx context.Context, username, email string, self uuid.UUID) (bool, error) {
	users, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return false, apperr.Internal(err)
	}
	for _, u := range users {
		if u.ID != self {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserService) get(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.InvalidUUID(invalidUUIDMsg)
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, userNotFound)
	}
	return u, nil
}

func (s *UserService) update(ctx context.Context, u *models.User, in dto.UserUpdate, roles []models.Role) (dto.UserResponse, error) {
	if err := s.ensureFree(ctx, in.Username, in.Email, u.ID); err != nil {
		return dto.UserResponse{}, err
	}
	var hash string
	if in.Password != "" {
		h, err := auth.HashPassword(in.Password)
		if err != nil {
			return dto.UserResponse{}, apperr.Internal(err)
		}
		hash = h
	}
	mapper.ApplyUserUpdate(u, in, hash, roles)
	if err := s.repo.Save(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.UserResponse{}, apperr.UserAlreadyExists(userExistsMsg)
		}
		return dto.UserResponse{}, storeErr(err, userNotFound)
	}
	return mapper.ToUserResponse(*u), nil
}

func (s *UserService) insert(ctx context.Context, u *models.User) error {
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.UserAlreadyExists(userExistsMsg)
		}
		return apperr.Internal(err)
	}
	s.lg.Infow("user created", "id", u.ID, "username", u.Username)
	return nil
}

func (s *UserService) ensureFree(ctx context.Context, username, email string, self uuid.UUID) error {
	taken, err := s.Taken(ctx, username, email, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.UserAlreadyExists(userExistsMsg)
	}
	return nil
}

// roles loads the named roles, defaulting to USER.
func (s *UserService) roles(ctx context.Context, names []string) ([]models.Role, error) {
	names = dto.RoleNames(names)
	roles, err := s.repo.FindRoles(ctx, names...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(roles) != len(names) {
		return nil, apperr.BadRequest("Rol no válido")
	}
	return roles, nil
}
