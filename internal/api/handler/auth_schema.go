package handler

// signUpRequest is the sign-up form body. Field rules are enforced by the
// registration service so every failure can be reported at once.
type signUpRequest struct {
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

// logInRequest accepts a username or an email in the username field.
type logInRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type membershipRequest struct {
	Secret string `form:"secret" validate:"required"`
}
