package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/members-only/internal/api/middleware"
	"github.com/sirpyerre/members-only/internal/api/web"
	"github.com/sirpyerre/members-only/internal/core/domain"
)

// ctxUser returns the authenticated user injected by the Session middleware.
// Routes behind the gates always have one; reaching here without it means
// the route was wired without a gate, so fail closed with 401.
func ctxUser(c echo.Context) (*domain.User, error) {
	identity := middleware.CurrentIdentity(c)
	if !identity.IsAuthenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return identity.User, nil
}

// newPage builds the view model with the caller identity filled in.
func newPage(c echo.Context, title string) web.Page {
	return web.Page{
		Title: title,
		User:  middleware.CurrentIdentity(c).User,
	}
}
