package ports

import (
	"context"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

// UserRepository defines persistence for member records.
type UserRepository interface {
	// Create inserts a new user. A unique-key collision is reported as
	// *domain.DuplicateFieldError.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByEmailOrUsername returns every user matching either key.
	FindByEmailOrUsername(ctx context.Context, email, username string) ([]*domain.User, error)
	SetMembership(ctx context.Context, id string, status bool) error
}
