package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"funkosrest/internal/apperr"
)

const invalidTokenMsg = "Token no autorizado o no válido"

// UserDetails is the identity a token is issued for.
type UserDetails interface {
	Subject() string
	RoleNames() []string
}

type tokenClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and checks HS256 tokens. Expiry is the only way a
// token stops being valid.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *JWTService) GenerateToken(u UserDetails) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Roles: u.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Subject(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ExtractUserName returns the subject of a verified, unexpired token.
func (s *JWTService) ExtractUserName(tokenStr string) (string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", apperr.InvalidToken(invalidTokenMsg)
	}
	return c.Subject, nil
}

// Roles returns the role claim of a verified token.
func (s *JWTService) Roles(tokenStr string) ([]string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return nil, apperr.InvalidToken(invalidTokenMsg)
	}
	return c.Roles, nil
}

// IsTokenValid reports whether the token verifies, is unexpired and was
// issued for u. It never fails.
func (s *JWTService) IsTokenValid(tokenStr string, u UserDetails) bool {
	if u == nil {
		return false
	}
	c, err := s.parse(tokenStr)
	if err != nil {
		return false
	}
	return c.Subject != "" && c.Subject == u.Subject()
}

func (s *JWTService) parse(tokenStr string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
