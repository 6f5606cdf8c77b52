package domain

import "testing"

func TestIdentity_Gates(t *testing.T) {
	cases := []struct {
		name          string
		identity      *Identity
		authenticated bool
		member        bool
	}{
		{name: "nil identity", identity: nil},
		{name: "anonymous", identity: Anonymous()},
		{name: "user without membership", identity: &Identity{User: &User{ID: "u1"}}, authenticated: true},
		{name: "member", identity: &Identity{User: &User{ID: "u1", MembershipStatus: true}}, authenticated: true, member: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.identity.IsAuthenticated(); got != tc.authenticated {
				t.Fatalf("IsAuthenticated = %v, want %v", got, tc.authenticated)
			}
			if got := tc.identity.IsMember(); got != tc.member {
				t.Fatalf("IsMember = %v, want %v", got, tc.member)
			}
		})
	}
}

func TestValidationErrors_For(t *testing.T) {
	errs := ValidationErrors{
		{Field: "password", Message: "a"},
		{Field: "email", Message: "b"},
		{Field: "password", Message: "c"},
	}

	got := errs.For("password")
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected messages: %v", got)
	}
	if errs.Error() != "password: a; email: b; password: c" {
		t.Fatalf("unexpected error string: %q", errs.Error())
	}
}
