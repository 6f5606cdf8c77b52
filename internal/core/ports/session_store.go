package ports

import (
	"context"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

// SessionStore persists sessions server-side, keyed by token.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Delete is idempotent: removing an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
