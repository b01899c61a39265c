package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/common/security"
	"github.com/Roja8626/tech-mock/internal/domain/model"
	"github.com/Roja8626/tech-mock/internal/domain/repository"
	"github.com/Roja8626/tech-mock/internal/platform/metrics"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration

	now func() time.Time
}

// NewAuthService creates the service. Sessions expire after sessionTTL, which
// should match the token lifetime; zero keeps them until logout.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	User      *model.User `json:"user"`
	SessionID string      `json:"sessionId"`
	Token     string      `json:"token"`
}

// Register always creates a new user, even if the email is already taken,
// and starts a session for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return nil, fmt.Errorf("name and email are required: %w", common.ErrValidation)
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, common.ErrValidation)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}
	user := &model.User{ID: id.String(), Name: name, Email: email, Role: role}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("INFO: Registered user %s (%s)", user.ID, user.Role)
	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()

	return s.startSession(ctx, user)
}

// Login matches the email case-insensitively; the first registered user with
// that address wins. An unknown email returns common.ErrNotFound.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, fmt.Errorf("email is required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "not_found").Inc()
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()

	return s.startSession(ctx, user)
}

// Logout ends the session. Users are untouched; unknown sessions are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// CurrentUser returns the user bound to sessionID, or common.ErrNotFound once
// the session has been logged out or has expired.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now().UnixMilli()) {
		return nil, common.ErrNotFound
	}
	user := session.User
	return &user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*AuthResponse, error) {
	now := s.now()
	session := &model.Session{
		ID:        uuid.NewString(),
		User:      *user,
		CreatedAt: now.UnixMilli(),
	}
	if s.sessionTTL > 0 {
		session.ExpiresAt = now.Add(s.sessionTTL).UnixMilli()
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := security.GenerateToken(user.ID, string(user.Role), session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user, SessionID: session.ID, Token: token}, nil
}
