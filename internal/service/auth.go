package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/auth"
	"funkosrest/internal/dto"
)

const (
	passwordsDifferMsg = "Las contraseñas no coinciden"
	badCredentialsMsg  = "Usuario o contraseña incorrectos"
)

type AuthService struct {
	users *UserService
	jwt   *auth.JWTService
	lg    *zap.SugaredLogger
}

func NewAuthService(users *UserService, jwt *auth.JWTService, lg *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, jwt: jwt, lg: lg}
}

// SignUp registers a USER and returns a token for it.
func (s *AuthService) SignUp(ctx context.Context, in dto.SignUp) (dto.JWTResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.JWTResponse{}, err
	}
	if in.Password != in.PasswordRepeat {
		return dto.JWTResponse{}, apperr.Unauthorized(passwordsDifferMsg)
	}
	unavailable := apperr.Unauthorized(fmt.Sprintf(
		"El usuario con username %s o email %s no están disponibles.", in.Username, in.Email))
	taken, err := s.users.Taken(ctx, in.Username, in.Email, uuid.Nil)
	if err != nil {
		return dto.JWTResponse{}, err
	}
	if taken {
		return dto.JWTResponse{}, unavailable
	}
	u, err := s.users.Register(ctx, in)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return dto.JWTResponse{}, unavailable
		}
		return dto.JWTResponse{}, err
	}
	return s.token(u)
}

// SignIn checks the credentials of an active user and returns a token.
func (s *AuthService) SignIn(ctx context.Context, in dto.SignIn) (dto.JWTResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.JWTResponse{}, err
	}
	u, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return dto.JWTResponse{}, apperr.Unauthorized(badCredentialsMsg)
		}
		return dto.JWTResponse{}, err
	}
	if u.IsDeleted || !auth.CheckPassword(u.PasswordHash, in.Password) {
		s.lg.Infow("sign in rejected", "username", in.Username)
		return dto.JWTResponse{}, apperr.Unauthorized(badCredentialsMsg)
	}
	return s.token(u)
}

func (s *AuthService) token(u auth.UserDetails) (dto.JWTResponse, error) {
	tok, err := s.jwt.GenerateToken(u)
	if err != nil {
		return dto.JWTResponse{}, apperr.Internal(err)
	}
	return dto.JWTResponse{Token: tok}, nil
}
