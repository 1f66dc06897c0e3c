package handler

import (
	"net/http"
	"strings"

	invitedomain "memowindow/internal/domain/invite"
	"memowindow/internal/invite"
	"memowindow/pkg/validator"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the unauthenticated token-gated invite surface.
type PublicHandler struct {
	invites InviteService
}

func NewPublicHandler(invites InviteService) *PublicHandler {
	return &PublicHandler{invites: invites}
}

type ValidateInvitationResponse struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

type SubmitMemoryRequest struct {
	SubmitterEmail string `json:"submitter_email"`
	Title          string `json:"title"`
	MediaURL       string `json:"media_url"`
	Notes          string `json:"notes"`
}

// Validate checks an invite token for submission eligibility. Every request
// that hits a live token counts as a scan.
func (h *PublicHandler) Validate(c echo.Context) error {
	tok := c.Param(paramToken)
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))

	v, err := h.invites.ValidateForSubmission(c.Request().Context(), tok, email, scanContext(c))
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	resp := ValidateInvitationResponse{Valid: v.Valid, Reason: v.Reason}
	if v.Invitation != nil {
		resp.Title = v.Invitation.Title
		resp.Message = v.Invitation.Message
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PublicHandler) SubmitMemory(c echo.Context) error {
	tok := c.Param(paramToken)

	var req SubmitMemoryRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.SubmitterEmail = strings.ToLower(strings.TrimSpace(req.SubmitterEmail))
	if err := validator.Title(req.Title); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if req.SubmitterEmail != "" {
		if err := validator.Email(req.SubmitterEmail); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}
	if req.MediaURL != "" {
		if err := validator.MediaURL(req.MediaURL); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}
	if err := validator.Notes(req.Notes); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	sub, err := h.invites.SubmitMemory(c.Request().Context(), invite.SubmitInput{
		Token:          tok,
		SubmitterEmail: req.SubmitterEmail,
		Title:          req.Title,
		MediaURL:       req.MediaURL,
		Notes:          req.Notes,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, submissionResponse(sub))
}

func scanContext(c echo.Context) invitedomain.ScanContext {
	return invitedomain.ScanContext{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referer:   c.Request().Referer(),
	}
}
