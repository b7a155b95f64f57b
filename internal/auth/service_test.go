package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/educode-dev/educode-backend/internal/auth"
	"github.com/educode-dev/educode-backend/internal/db"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return auth.NewService(dbh, "test-secret", time.Hour)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "ada@example.com", "Ada", "hunter2hunter2", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != auth.RoleStudent {
		t.Errorf("default role = %q, want student", u.Role)
	}

	got, tok, err := svc.Login(ctx, "ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("login user id = %d, want %d", got.ID, u.ID)
	}

	claims, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != auth.RoleStudent {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "Ada", "hunter2hunter2", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "ada@example.com", "Ada II", "hunter2hunter2", ""); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "Ada", "hunter2hunter2", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseGarbageToken(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Parse("not-a-token"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
