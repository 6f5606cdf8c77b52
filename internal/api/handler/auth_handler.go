package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/api/metrics"
	"github.com/sirpyerre/members-only/internal/api/middleware"
	"github.com/sirpyerre/members-only/internal/api/web"
	"github.com/sirpyerre/members-only/internal/core/domain"
	"github.com/sirpyerre/members-only/internal/core/ports"
)

const invalidLoginMessage = "Invalid username or password"

type AuthHandler struct {
	authService ports.AuthService
	cookies     *middleware.SessionCookies
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies *middleware.SessionCookies, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

// SignUpForm renders the registration form.
//
// @Summary      Registration form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /sign-up [get]
func (h *AuthHandler) SignUpForm(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageSignUp, newPage(c, "Sign up"))
}

// SignUp creates a new account. No session is opened; the visitor logs in
// afterwards.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        first_name        formData  string  true  "First name"
// @Param        last_name         formData  string  true  "Last name"
// @Param        username          formData  string  true  "Username"
// @Param        email             formData  string  true  "Email"
// @Param        password          formData  string  true  "Password"
// @Param        confirm_password  formData  string  true  "Password confirmation"
// @Success      303  "Redirect to /"
// @Failure      400  "Form re-rendered with field errors"
// @Failure      500
// @Router       /sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegistrationInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err == nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		return c.Redirect(http.StatusSeeOther, "/")
	}

	page := newPage(c, "Sign up")
	page.Form = map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"username":   req.Username,
		"email":      req.Email,
	}

	var verrs domain.ValidationErrors
	var dup *domain.DuplicateFieldError
	switch {
	case errors.As(err, &verrs):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		page.FieldErrors = fieldErrorMap(verrs)
		return c.Render(http.StatusBadRequest, web.PageSignUp, page)
	case errors.As(err, &dup):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultConflict).Inc()
		page.FieldErrors = map[string][]string{dup.Field: {dup.Error()}}
		return c.Render(http.StatusBadRequest, web.PageSignUp, page)
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
}

// LogInForm renders the login form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /log-in [get]
func (h *AuthHandler) LogInForm(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageLogIn, newPage(c, "Log in"))
}

// LogIn authenticates by username or email and sets the session cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        username  formData  string  true  "Username or email"
// @Param        password  formData  string  true  "Password"
// @Success      303  "Session cookie set, redirect to /"
// @Failure      401  "Form re-rendered with a generic message"
// @Failure      500
// @Router       /log-in [post]
func (h *AuthHandler) LogIn(c echo.Context) error {
	var req logInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return h.renderLoginFailure(c, req.Username)
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return h.renderLoginFailure(c, req.Username)
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	if err := h.cookies.Set(c, session); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) renderLoginFailure(c echo.Context, username string) error {
	metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
	page := newPage(c, "Log in")
	page.Errors = []string{invalidLoginMessage}
	page.Form = map[string]string{"username": username}
	return c.Render(http.StatusUnauthorized, web.PageLogIn, page)
}

// LogOut revokes the current session and always clears the cookie.
//
// @Summary      Log out
// @Tags         auth
// @Success      303  "Redirect to /"
// @Router       /log-out [get]
func (h *AuthHandler) LogOut(c echo.Context) error {
	token := h.cookies.Token(c)
	h.cookies.Clear(c)

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
