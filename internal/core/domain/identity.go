package domain

// Identity is the caller resolved from the session cookie. A nil User means
// the request is anonymous.
type Identity struct {
	User *User
}

// Anonymous returns an identity with no user attached.
func Anonymous() *Identity {
	return &Identity{}
}

// IsAuthenticated reports whether a session resolved to a user.
func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.User != nil
}

// IsMember reports whether the resolved user holds membership.
func (i *Identity) IsMember() bool {
	return i.IsAuthenticated() && i.User.MembershipStatus
}
