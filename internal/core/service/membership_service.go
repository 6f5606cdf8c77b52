package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/core/domain"
	"github.com/sirpyerre/members-only/internal/core/ports"
)

// MembershipService grants membership against a shared secret and revokes it
// on request. Callers must already be authenticated.
type MembershipService struct {
	users  ports.UserRepository
	secret string
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewMembershipService(users ports.UserRepository, secret string, audit ports.AuditSink, log zerolog.Logger) *MembershipService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &MembershipService{users: users, secret: secret, audit: audit, log: log}
}

// SetMembership sets the flag for userID when secret matches the configured
// one exactly. On mismatch the flag is untouched and domain.ErrWrongSecret
// is returned. An unconfigured secret never matches.
func (s *MembershipService) SetMembership(ctx context.Context, userID, secret string) error {
	if s.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		s.audit.Record(domain.AuthEvent{Type: domain.EventMembershipDenied, UserID: userID, OccurredAt: time.Now().UTC()})
		s.log.Debug().Str("user_id", userID).Msg("membership secret rejected")
		return domain.ErrWrongSecret
	}

	if err := s.users.SetMembership(ctx, userID, true); err != nil {
		return fmt.Errorf("set membership: %w", err)
	}

	s.audit.Record(domain.AuthEvent{Type: domain.EventMembershipGranted, UserID: userID, OccurredAt: time.Now().UTC()})
	s.log.Info().Str("user_id", userID).Msg("membership granted")
	return nil
}

// ClearMembership unconditionally clears the flag. Repeated calls are harmless.
func (s *MembershipService) ClearMembership(ctx context.Context, userID string) error {
	if err := s.users.SetMembership(ctx, userID, false); err != nil {
		return fmt.Errorf("clear membership: %w", err)
	}

	s.audit.Record(domain.AuthEvent{Type: domain.EventMembershipRevoked, UserID: userID, OccurredAt: time.Now().UTC()})
	s.log.Info().Str("user_id", userID).Msg("membership revoked")
	return nil
}
