// Package auth issues and verifies admin JWTs.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"lms-service/internal/domain"
)

const (
	issuer    = "lms-service"
	RoleAdmin = "admin"
)

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service checks admin credentials against bcrypt hashes and signs HS256 tokens.
type Service struct {
	hmac   []byte
	ttl    time.Duration
	admins map[string]string
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration, admins map[string]string) *Service {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Service{hmac: []byte(secret), ttl: ttl, admins: admins, now: time.Now}
}

// Login returns a signed token for a known admin with a matching password.
func (s *Service) Login(username, password string) (string, error) {
	hash, ok := s.admins[username]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return s.IssueJWT(username, RoleAdmin)
}

func (s *Service) IssueJWT(sub, role string) (string, error) {
	now := s.now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if c.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %q", domain.ErrUnauthorized, c.Role)
	}
	return c, nil
}

// HashPassword returns a bcrypt hash suitable for the admins config.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
