package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	loginPath      = "/log-in"
	membershipPath = "/membership"
)

// RequireAuthenticated redirects anonymous callers to the login page.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentIdentity(c).IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}

// RequireMember admits only authenticated members. Authentication is checked
// first, so anonymous callers always land on the login page.
func RequireMember() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := CurrentIdentity(c)
			if !identity.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			if !identity.IsMember() {
				return c.Redirect(http.StatusSeeOther, membershipPath)
			}
			return next(c)
		}
	}
}
