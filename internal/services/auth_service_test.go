package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/events"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

func newAuthTestService(t *testing.T) (AuthService, *auth.SessionManager, *events.MockEventPublisher) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sessions := auth.NewSessionManager(client, "test-secret", time.Hour, testLogger())
	publisher := events.NewMockEventPublisher(testLogger())
	repo := newMockRepository()
	svc := NewAuthService(repo, nil, testLogger(), validator.New(), sessions, publisher, cache.NewCacheManager(nil), newMemFileStore())
	return svc, sessions, publisher
}

func registerReq(name, email string, role models.UserRole) *models.RegisterRequest {
	return &models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret-pass",
		Role:     role,
	}
}

func TestRegisterAndLoginByEmail(t *testing.T) {
	svc, sessions, publisher := newAuthTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("Ravi Kumar", "ravi@example.com", models.RolePatient))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("user ID not assigned")
	}
	if user.Role != models.RolePatient {
		t.Errorf("role = %s, want patient", user.Role)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.UserRegistered {
		t.Errorf("expected one %s event, got %+v", events.UserRegistered, published)
	}

	loggedIn, token, err := svc.Login(ctx, &models.LoginRequest{Identifier: "ravi@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("logged in user = %d, want %d", loggedIn.ID, user.ID)
	}

	identity, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.UserID != user.ID || identity.Role != models.RolePatient {
		t.Errorf("identity = %+v", identity)
	}
}

func TestLoginByUsername(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()

	username := "dr_meena"
	req := registerReq("Dr Meena", "meena@example.com", models.RoleDoctor)
	req.Username = &username
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// No '@' means username lookup.
	if _, _, err := svc.Login(ctx, &models.LoginRequest{Identifier: "dr_meena", Password: "secret-pass"}); err != nil {
		t.Fatalf("Login by username: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("Ravi", "ravi@example.com", models.RolePatient)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Register(ctx, registerReq("Other Ravi", "ravi@example.com", models.RolePatient))
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Errorf("duplicate register = %v, want ErrDuplicateAccount", err)
	}

	// The original account survives the rejected attempt.
	user, _, err := svc.Login(ctx, &models.LoginRequest{Identifier: "ravi@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login after duplicate attempt: %v", err)
	}
	if user.Name != "Ravi" {
		t.Errorf("logged-in user = %q, want %q", user.Name, "Ravi")
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	_, err := svc.Register(context.Background(), registerReq("Mallory", "mallory@example.com", models.RoleAdmin))
	if err == nil {
		t.Fatal("expected validation error for admin registration")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("Ravi", "ravi@example.com", models.RolePatient)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := svc.Login(ctx, &models.LoginRequest{Identifier: "ravi@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", err)
	}

	_, _, err = svc.Login(ctx, &models.LoginRequest{Identifier: "nobody@example.com", Password: "secret-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("Ravi", "ravi@example.com", models.RolePatient)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := svc.Login(ctx, &models.LoginRequest{Identifier: "ravi@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, auth.ErrSessionExpired) {
		t.Errorf("Resolve after logout = %v, want ErrSessionExpired", err)
	}
}
