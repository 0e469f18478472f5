package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tunewave/music-api/internal/core/domain"
)

func TestAuthService_Register_Success(t *testing.T) {
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	svc := NewAuthService(users, profiles, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass12345")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.HasRole(domain.RoleUser) {
		t.Fatalf("expected default user role, got %v", user.Roles)
	}

	profile, err := profiles.FindByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("registration must create a profile: %v", err)
	}
	if profile.DisplayName != "alice" {
		t.Fatalf("unexpected display name: %s", profile.DisplayName)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubProfileRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "", "a@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

type failingProfileRepo struct {
	*stubProfileRepo
	createErr error
}

func (r *failingProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.stubProfileRepo.Create(ctx, profile)
}

func TestAuthService_Register_FailedProfileRollsBackAccount(t *testing.T) {
	users := newStubUserRepo()
	profiles := &failingProfileRepo{stubProfileRepo: newStubProfileRepo(), createErr: errors.New("write failed")}
	svc := NewAuthService(users, profiles, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass12345"); err == nil {
		t.Fatalf("expected error when profile creation fails")
	}
	if _, err := users.FindByEmail(context.Background(), "alice@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("account must not survive a failed registration, got %v", err)
	}

	profiles.createErr = nil
	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass12345")
	if err != nil {
		t.Fatalf("retry after a failed registration must succeed, got %v", err)
	}
	if _, err := profiles.FindByUserID(context.Background(), user.ID); err != nil {
		t.Fatalf("retry must create a profile: %v", err)
	}
}

func TestAuthService_Register_DuplicateUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubProfileRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass12345"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "other@example.com", "pass12345"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubProfileRepo(), "secret", time.Hour)

	registered, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass12345")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice@example.com", "pass12345")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %s", user.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != registered.ID {
		t.Fatalf("expected sub claim %s, got %v", registered.ID, claims["sub"])
	}
	if claims["username"] != "alice" {
		t.Fatalf("expected username claim, got %v", claims["username"])
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles claim: %v", claims["roles"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubProfileRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass12345"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubProfileRepo(), "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "pass"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
