package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

func seededMembers() *stubUserRepo {
	repo := newStubUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Username: "alice"}
	repo.users["u2"] = &domain.User{ID: "u2", Username: "bob"}
	return repo
}

func TestMembershipService_SetMembership_CorrectSecret(t *testing.T) {
	repo := seededMembers()
	audit := &recordingAudit{}
	svc := NewMembershipService(repo, "open-sesame", audit, zerolog.Nop())

	if err := svc.SetMembership(context.Background(), "u1", "open-sesame"); err != nil {
		t.Fatalf("SetMembership returned error: %v", err)
	}
	if !repo.users["u1"].MembershipStatus {
		t.Fatalf("expected u1 to be a member")
	}
	if repo.users["u2"].MembershipStatus {
		t.Fatalf("u2 must not be affected")
	}
	if len(audit.events) != 1 || audit.events[0].Type != domain.EventMembershipGranted {
		t.Fatalf("expected granted audit event, got %v", audit.types())
	}
}

func TestMembershipService_SetMembership_WrongSecret(t *testing.T) {
	repo := seededMembers()
	audit := &recordingAudit{}
	svc := NewMembershipService(repo, "open-sesame", audit, zerolog.Nop())

	err := svc.SetMembership(context.Background(), "u1", "open-sesam")
	if !errors.Is(err, domain.ErrWrongSecret) {
		t.Fatalf("expected ErrWrongSecret, got %v", err)
	}
	if repo.users["u1"].MembershipStatus {
		t.Fatalf("flag must be unchanged on wrong secret")
	}
	if audit.events[0].Type != domain.EventMembershipDenied {
		t.Fatalf("expected denied audit event, got %v", audit.types())
	}
}

func TestMembershipService_SetMembership_WrongSecretKeepsExistingMembership(t *testing.T) {
	repo := seededMembers()
	repo.users["u1"].MembershipStatus = true
	svc := NewMembershipService(repo, "open-sesame", nil, zerolog.Nop())

	if err := svc.SetMembership(context.Background(), "u1", "nope"); !errors.Is(err, domain.ErrWrongSecret) {
		t.Fatalf("expected ErrWrongSecret, got %v", err)
	}
	if !repo.users["u1"].MembershipStatus {
		t.Fatalf("existing membership must survive a wrong secret")
	}
}

func TestMembershipService_SetMembership_EmptyConfiguredSecret(t *testing.T) {
	repo := seededMembers()
	svc := NewMembershipService(repo, "", nil, zerolog.Nop())

	if err := svc.SetMembership(context.Background(), "u1", ""); !errors.Is(err, domain.ErrWrongSecret) {
		t.Fatalf("expected ErrWrongSecret, got %v", err)
	}
}

func TestMembershipService_SetMembership_StoreError(t *testing.T) {
	svc := NewMembershipService(newStubUserRepo(), "open-sesame", nil, zerolog.Nop())

	err := svc.SetMembership(context.Background(), "missing", "open-sesame")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped ErrUserNotFound, got %v", err)
	}
}

func TestMembershipService_ClearMembership_Idempotent(t *testing.T) {
	repo := seededMembers()
	repo.users["u1"].MembershipStatus = true
	repo.users["u2"].MembershipStatus = true
	svc := NewMembershipService(repo, "open-sesame", nil, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if err := svc.ClearMembership(context.Background(), "u1"); err != nil {
			t.Fatalf("ClearMembership call %d failed: %v", i+1, err)
		}
		if repo.users["u1"].MembershipStatus {
			t.Fatalf("expected u1 flag cleared after call %d", i+1)
		}
	}
	if !repo.users["u2"].MembershipStatus {
		t.Fatalf("u2 must not be affected")
	}
}
