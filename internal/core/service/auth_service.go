package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/core/domain"
	"github.com/sirpyerre/members-only/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionTokenBytes = 32
	timingPassword    = "timing-equalizer-Pw1!"
)

// AuthService implements registration, login, logout and session resolution.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	hasher     ports.PasswordHasher
	audit      ports.AuditSink
	validator  *registrationValidator
	sessionTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	audit ports.AuditSink,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	if audit == nil {
		audit = nopAudit{}
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		audit:      audit,
		validator:  newRegistrationValidator(),
		sessionTTL: sessionTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register validates and stores a new user, returning its ID. Validation
// failures come back as domain.ValidationErrors, collisions as
// *domain.DuplicateFieldError. No session is created.
func (s *AuthService) Register(ctx context.Context, in ports.RegistrationInput) (string, error) {
	in = normalizeRegistration(in)
	if errs := s.validator.Validate(in); len(errs) > 0 {
		return "", errs
	}

	existing, err := s.users.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	if field := duplicateField(existing, in.Email); field != "" {
		return "", &domain.DuplicateFieldError{Field: field}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		var dup *domain.DuplicateFieldError
		if errors.As(err, &dup) {
			return "", dup
		}
		return "", fmt.Errorf("register: %w", err)
	}

	s.audit.Record(domain.AuthEvent{Type: domain.EventRegistered, UserID: user.ID, Username: user.Username, OccurredAt: user.CreatedAt})
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return user.ID, nil
}

// duplicateField names the colliding field; email wins when both collide.
func duplicateField(existing []*domain.User, email string) string {
	if len(existing) == 0 {
		return ""
	}
	for _, u := range existing {
		if u.Email == email {
			return "email"
		}
	}
	return "username"
}

// Login checks credentials and opens a session. Unknown users and wrong
// passwords both yield exactly domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, key, password string) (*domain.Session, error) {
	key = strings.TrimSpace(key)
	if key == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.lookup(ctx, key)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.equalizeTiming(password)
		s.recordLoginFailure("", key)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.recordLoginFailure(user.ID, user.Username)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	now := s.now()
	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}

	s.audit.Record(domain.AuthEvent{Type: domain.EventLoginSucceeded, UserID: user.ID, Username: user.Username, OccurredAt: now})
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return session, nil
}

// lookup tries keys containing "@" as an email first, then as a username.
func (s *AuthService) lookup(ctx context.Context, key string) (*domain.User, error) {
	if strings.Contains(key, "@") {
		user, err := s.users.FindByEmail(ctx, normalizeEmail(key))
		if !errors.Is(err, domain.ErrUserNotFound) {
			return user, err
		}
	}
	return s.users.FindByUsername(ctx, key)
}

// equalizeTiming spends one hash comparison so that unknown users cost the
// same as wrong passwords.
func (s *AuthService) equalizeTiming(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(timingPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build timing hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) recordLoginFailure(userID, username string) {
	s.audit.Record(domain.AuthEvent{Type: domain.EventLoginFailed, UserID: userID, Username: username, OccurredAt: s.now()})
	s.log.Debug().Str("username", username).Msg("login failed")
}

// Logout revokes the session bound to token. Unknown or empty tokens are
// not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	// Best effort: only used to attribute the audit event.
	session, getErr := s.sessions.Get(ctx, token)

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if getErr == nil {
		s.audit.Record(domain.AuthEvent{Type: domain.EventLoggedOut, UserID: session.UserID, OccurredAt: s.now()})
		s.log.Info().Str("user_id", session.UserID).Msg("logged out")
	}
	return nil
}

// Resolve maps a session token to the caller identity. Missing, expired or
// orphaned sessions resolve to an anonymous identity. Resolution never
// extends the session lifetime.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return domain.Anonymous(), nil
	}

	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Anonymous(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if session.Expired(s.now()) {
		return domain.Anonymous(), nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Anonymous(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	return &domain.Identity{User: user}, nil
}

// newSessionToken returns 32 bytes from crypto/rand, base64url encoded.
func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type nopAudit struct{}

func (nopAudit) Record(domain.AuthEvent) {}
