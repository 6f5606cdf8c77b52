package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

type stubMembershipService struct {
	setFn   func(ctx context.Context, userID, secret string) error
	clearFn func(ctx context.Context, userID string) error
}

func (s *stubMembershipService) SetMembership(ctx context.Context, userID, secret string) error {
	return s.setFn(ctx, userID, secret)
}

func (s *stubMembershipService) ClearMembership(ctx context.Context, userID string) error {
	return s.clearFn(ctx, userID)
}

func TestMembershipHandler_Join_Success(t *testing.T) {
	stub := &stubMembershipService{
		setFn: func(_ context.Context, userID, secret string) error {
			if userID != "u-1" || secret != "open-sesame" {
				t.Fatalf("unexpected args %q %q", userID, secret)
			}
			return nil
		},
	}
	c, rec := newFormContext(http.MethodPost, "/membership", url.Values{"secret": {"open-sesame"}}, userIdentity(false))

	if err := NewMembershipHandler(stub, zerolog.Nop()).Join(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/membership" {
		t.Fatalf("expected 303 to /membership, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestMembershipHandler_Join_WrongSecret(t *testing.T) {
	stub := &stubMembershipService{
		setFn: func(context.Context, string, string) error { return domain.ErrWrongSecret },
	}
	c, rec := newFormContext(http.MethodPost, "/membership", url.Values{"secret": {"guess"}}, userIdentity(false))

	if err := NewMembershipHandler(stub, zerolog.Nop()).Join(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect passcode") {
		t.Fatalf("expected incorrect indicator")
	}
}

func TestMembershipHandler_Join_EmptySecret(t *testing.T) {
	stub := &stubMembershipService{
		setFn: func(context.Context, string, string) error {
			t.Fatalf("service must not be called")
			return nil
		},
	}
	c, rec := newFormContext(http.MethodPost, "/membership", url.Values{"secret": {""}}, userIdentity(false))

	if err := NewMembershipHandler(stub, zerolog.Nop()).Join(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Incorrect passcode") {
		t.Fatalf("expected incorrect form, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Secret is required") {
		t.Fatalf("expected field message in body: %s", rec.Body.String())
	}
}

func TestMembershipHandler_Join_StoreError(t *testing.T) {
	storeErr := errors.New("db down")
	stub := &stubMembershipService{
		setFn: func(context.Context, string, string) error { return storeErr },
	}
	c, _ := newFormContext(http.MethodPost, "/membership", url.Values{"secret": {"open-sesame"}}, userIdentity(false))

	if err := NewMembershipHandler(stub, zerolog.Nop()).Join(c); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestMembershipHandler_Join_Anonymous(t *testing.T) {
	stub := &stubMembershipService{}
	c, _ := newFormContext(http.MethodPost, "/membership", url.Values{"secret": {"x"}}, nil)

	err := NewMembershipHandler(stub, zerolog.Nop()).Join(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestMembershipHandler_Leave(t *testing.T) {
	var cleared string
	stub := &stubMembershipService{
		clearFn: func(_ context.Context, userID string) error {
			cleared = userID
			return nil
		},
	}
	c, rec := newFormContext(http.MethodPost, "/lose-membership", url.Values{}, userIdentity(true))

	if err := NewMembershipHandler(stub, zerolog.Nop()).Leave(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if cleared != "u-1" {
		t.Fatalf("expected u-1 cleared, got %q", cleared)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/membership" {
		t.Fatalf("expected 303 to /membership, got %d", rec.Code)
	}
}

func TestMembershipHandler_Form(t *testing.T) {
	c, rec := newFormContext(http.MethodGet, "/membership", nil, userIdentity(true))

	if err := NewMembershipHandler(&stubMembershipService{}, zerolog.Nop()).Form(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/lose-membership") {
		t.Fatalf("expected member view, got %d", rec.Code)
	}
}
