package service

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubTokenService struct {
	issued []string
}

func (s *stubTokenService) Issue(username string) (string, error) {
	s.issued = append(s.issued, username)
	return "token-for-" + username, nil
}

func (s *stubTokenService) ExtractSubject(token string) (string, error) {
	return "", domain.ErrInvalidToken
}

func (s *stubTokenService) Verify(token, expectedUsername string) bool {
	return false
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingSink) Record(event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) all() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubTokenService{}, nil)

	user, err := svc.Register(context.Background(), "alice", "secret1", domain.RoleSeller)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleSeller {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubTokenService{}, nil)

	user, err := svc.Register(context.Background(), "bob", "pass", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleBuyer {
		t.Fatalf("expected default role %s, got %s", domain.RoleBuyer, user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubTokenService{}, nil)

	if _, err := svc.Register(context.Background(), "", "pass", domain.RoleSeller); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "", domain.RoleSeller); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass", "ADMIN"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubTokenService{}, nil)

	_, _ = svc.Register(context.Background(), "bob", "pass", domain.RoleSeller)
	if _, err := svc.Register(context.Background(), "bob", "pass2", domain.RoleSeller); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	tokens := &stubTokenService{}
	sink := &recordingSink{}
	svc := NewAuthService(repo, tokens, sink)

	if _, err := svc.Register(context.Background(), "carol", "s3cret", domain.RoleSeller); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "token-for-carol" {
		t.Fatalf("unexpected token: %q", token)
	}
	if len(tokens.issued) != 1 || tokens.issued[0] != "carol" {
		t.Fatalf("expected token issued for carol, got %v", tokens.issued)
	}

	events := sink.all()
	if len(events) != 1 || events[0].Decision != domain.DecisionAllowed || events[0].Action != domain.ActionLogin {
		t.Fatalf("unexpected audit events: %+v", events)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc := NewAuthService(repo, &stubTokenService{}, sink)

	_, _ = svc.Register(context.Background(), "carol", "s3cret", domain.RoleSeller)

	if _, err := svc.Login(context.Background(), "carol", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	events := sink.all()
	if len(events) != 1 || events[0].Decision != domain.DecisionDenied {
		t.Fatalf("expected one denied audit event, got %+v", events)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubTokenService{}, nil)

	// Unknown user and wrong password must be indistinguishable.
	if _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
