package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/jwt"

	"github.com/google/uuid"
)

// DefaultView is the view every new or reset session starts on
const DefaultView = "dashboard"

// LoginSession is one bound identity plus the view it is looking at
type LoginSession struct {
	ID         string      `json:"id"`
	IdentityID string      `json:"identity_id"`
	Role       domain.Role `json:"role"`
	View       string      `json:"view"`
	CreatedAt  time.Time   `json:"created_at"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

// LoginResult is returned after a role has been selected
type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  *domain.Identity `json:"identity"`
	Session   LoginSession     `json:"session"`
}

// AuthService binds demo identities to sessions. There are no credentials:
// selecting a role logs in as the first seeded identity of that role.
type AuthService struct {
	identities repositories.IdentityRepository
	cfg        *config.Config

	mu       sync.RWMutex
	sessions map[string]*LoginSession
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(identities repositories.IdentityRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		identities: identities,
		cfg:        cfg,
		sessions:   make(map[string]*LoginSession),
		now:        time.Now,
	}
}

// SelectRole logs in as the first identity of role. When no such identity
// is seeded it returns ErrNoAccountForRole and no session is created.
func (s *AuthService) SelectRole(ctx context.Context, role string) (*LoginResult, error) {
	// 1. Parse role
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	// 2. Find demo identity
	identity, err := s.identities.FindFirstByRole(ctx, r)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("role %s: %w", r, domain.ErrNoAccountForRole)
		}
		return nil, err
	}

	// 3. Sign token for a fresh session
	now := s.now()
	sess := &LoginSession{
		ID:         uuid.NewString(),
		IdentityID: identity.ID,
		Role:       identity.Role,
		View:       DefaultView,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.JWT.SessionTTL),
	}
	token, err := jwt.GenerateSessionToken(sess.ID, identity.ID, string(identity.Role), s.cfg.JWT.Secret, s.cfg.JWT.SessionTTL)
	if err != nil {
		return nil, err
	}

	// 4. Register session
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Printf("✅ Session %s started as %s (%s)", sess.ID, identity.Name, identity.Role)

	return &LoginResult{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Identity:  identity,
		Session:   *sess,
	}, nil
}

// Authenticate validates a token and returns its live session and identity
func (s *AuthService) Authenticate(ctx context.Context, token string) (*LoginSession, *domain.Identity, error) {
	claims, err := jwt.ValidateSessionToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return s.Current(ctx, claims.SessionID)
}

// Current returns the session and its bound identity
func (s *AuthService) Current(ctx context.Context, sessionID string) (*LoginSession, *domain.Identity, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}

	identity, err := s.identities.GetByID(ctx, sess.IdentityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrUnauthorized)
		}
		return nil, nil, err
	}
	return sess, identity, nil
}

// Navigate records the view the session is looking at
func (s *AuthService) Navigate(sessionID, view string) (*LoginSession, error) {
	view = strings.TrimSpace(view)
	if view == "" {
		return nil, fmt.Errorf("view is required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrUnauthorized)
	}
	sess.View = view
	cp := *sess
	return &cp, nil
}

// Logout ends a session. It always succeeds, even for unknown sessions.
func (s *AuthService) Logout(sessionID string) {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if existed {
		log.Printf("✅ Session %s logged out", sessionID)
	}
}

// PurgeExpired drops sessions past their expiry
func (s *AuthService) PurgeExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

func (s *AuthService) session(sessionID string) (*LoginSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrUnauthorized)
	}
	cp := *sess
	return &cp, nil
}
