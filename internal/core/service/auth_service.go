package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	audit  ports.AuditSink
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, audit ports.AuditSink) *AuthService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &AuthService{repo: repo, tokens: tokens, audit: audit}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleBuyer
	}
	if role != domain.RoleSeller && role != domain.RoleBuyer {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a bearer token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordLogin(username, domain.DecisionDenied, "unknown user")
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordLogin(username, domain.DecisionDenied, "wrong password")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", err
	}

	s.recordLogin(username, domain.DecisionAllowed, "")
	return token, nil
}

func (s *AuthService) recordLogin(username, decision, reason string) {
	s.audit.Record(domain.AuditEvent{
		Actor:     username,
		Action:    domain.ActionLogin,
		Decision:  decision,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
