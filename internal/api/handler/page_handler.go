package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/members-only/internal/api/web"
)

// PageHandler serves pages that only read the caller identity.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index renders the home page.
//
// @Summary      Home page
// @Tags         pages
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *PageHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageIndex, newPage(c, ""))
}

// CreatePost renders the member-only page.
//
// @Summary      Member-only page
// @Tags         pages
// @Produce      html
// @Success      200
// @Failure      303  "Anonymous visitors go to /log-in, non-members to /membership"
// @Router       /create-post [get]
func (h *PageHandler) CreatePost(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageCreatePost, newPage(c, "Create post"))
}
