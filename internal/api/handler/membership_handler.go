package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/api/metrics"
	"github.com/sirpyerre/members-only/internal/api/web"
	"github.com/sirpyerre/members-only/internal/core/domain"
	"github.com/sirpyerre/members-only/internal/core/ports"
)

const (
	actionGrant  = "grant"
	actionRevoke = "revoke"
)

type MembershipHandler struct {
	membershipService ports.MembershipService
	log               zerolog.Logger
}

func NewMembershipHandler(membershipService ports.MembershipService, log zerolog.Logger) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService, log: log}
}

// Form renders the membership page for the current user.
//
// @Summary      Membership form
// @Tags         membership
// @Produce      html
// @Success      200
// @Failure      303  "Anonymous visitors are sent to /log-in"
// @Router       /membership [get]
func (h *MembershipHandler) Form(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageMembership, newPage(c, "Membership"))
}

// Join grants membership when the submitted secret matches.
//
// @Summary      Become a member
// @Tags         membership
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        secret  formData  string  true  "Membership passcode"
// @Success      303  "Redirect to /membership"
// @Success      200  "Form re-rendered with the incorrect indicator"
// @Failure      500
// @Router       /membership [post]
func (h *MembershipHandler) Join(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req membershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		var verrs domain.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		return h.renderIncorrect(c, fieldErrorMap(verrs))
	}

	err = h.membershipService.SetMembership(c.Request().Context(), user.ID, req.Secret)
	if errors.Is(err, domain.ErrWrongSecret) {
		return h.renderIncorrect(c, nil)
	}
	if err != nil {
		metrics.MembershipChangesTotal.WithLabelValues(actionGrant, metrics.ResultError).Inc()
		return err
	}

	metrics.MembershipChangesTotal.WithLabelValues(actionGrant, metrics.ResultSuccess).Inc()
	return c.Redirect(http.StatusSeeOther, "/membership")
}

func (h *MembershipHandler) renderIncorrect(c echo.Context, fieldErrors map[string][]string) error {
	metrics.MembershipChangesTotal.WithLabelValues(actionGrant, metrics.ResultFailure).Inc()
	page := newPage(c, "Membership")
	page.Incorrect = true
	page.FieldErrors = fieldErrors
	return c.Render(http.StatusOK, web.PageMembership, page)
}

// Leave revokes the current user's membership.
//
// @Summary      Give up membership
// @Tags         membership
// @Success      303  "Redirect to /membership"
// @Failure      500
// @Router       /lose-membership [post]
func (h *MembershipHandler) Leave(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.membershipService.ClearMembership(c.Request().Context(), user.ID); err != nil {
		metrics.MembershipChangesTotal.WithLabelValues(actionRevoke, metrics.ResultError).Inc()
		return err
	}

	metrics.MembershipChangesTotal.WithLabelValues(actionRevoke, metrics.ResultSuccess).Inc()
	return c.Redirect(http.StatusSeeOther, "/membership")
}
