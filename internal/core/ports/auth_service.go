package ports

import (
	"context"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

// RegistrationInput is the raw sign-up submission.
type RegistrationInput struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// PasswordHasher hashes and verifies passwords with a one-way salted scheme.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// AuthService covers registration and the session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegistrationInput) (string, error)
	Login(ctx context.Context, key, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// MembershipService toggles the membership flag.
type MembershipService interface {
	SetMembership(ctx context.Context, userID, secret string) error
	ClearMembership(ctx context.Context, userID string) error
}
