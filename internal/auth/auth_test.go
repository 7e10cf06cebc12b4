package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lms-service/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewService("test-secret", time.Hour, map[string]string{"admin": string(hash)})
}

func TestLoginAndParse(t *testing.T) {
	svc := newTestService(t)
	tok, err := svc.Login("admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "admin" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Login("admin", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Login("nobody", "s3cret"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newTestService(t)
	issued := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	tok, err := svc.IssueJWT("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.Parse(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}

	other := NewService("other-secret", time.Hour, nil)
	foreign, _ := other.IssueJWT("admin", RoleAdmin)
	if _, err := svc.Parse(foreign); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected foreign token rejected, got %v", err)
	}

	svc.now = time.Now
	learner, _ := svc.IssueJWT("bob", "learner")
	if _, err := svc.Parse(learner); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected non-admin role rejected, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
