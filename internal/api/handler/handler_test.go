package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/members-only/internal/api/middleware"
	"github.com/sirpyerre/members-only/internal/api/web"
	"github.com/sirpyerre/members-only/internal/core/domain"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = web.MustNewRenderer()
	e.Validator = NewValidator()
	return e
}

// newFormContext builds a context for a form POST (or GET when form is nil)
// with identity already resolved.
func newFormContext(method, target string, form url.Values, identity *domain.Identity, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := newTestEcho()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity == nil {
		identity = domain.Anonymous()
	}
	middleware.SetIdentity(c, identity)
	return c, rec
}

func userIdentity(member bool) *domain.Identity {
	return &domain.Identity{User: &domain.User{
		ID:               "u-1",
		FirstName:        "Alice",
		LastName:         "Liddell",
		Username:         "alice",
		MembershipStatus: member,
	}}
}
