package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"memowindow/internal/auth"
	invitedomain "memowindow/internal/domain/invite"
	"memowindow/internal/invite"
	apperrors "memowindow/pkg/errors"
	"memowindow/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type InvitationHandler struct {
	invites InviteService
}

func NewInvitationHandler(invites InviteService) *InvitationHandler {
	return &InvitationHandler{invites: invites}
}

type CreateInvitationRequest struct {
	InvitedEmail   string     `json:"invited_email"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	MaxSubmissions *int       `json:"max_submissions"`
	AllowPublic    bool       `json:"allow_public"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

type InvitationResponse struct {
	ID                 string `json:"id"`
	Token              string `json:"token"`
	InvitedEmail       string `json:"invited_email,omitempty"`
	Title              string `json:"title"`
	Message            string `json:"message,omitempty"`
	MaxSubmissions     *int   `json:"max_submissions,omitempty"`
	CurrentSubmissions int    `json:"current_submissions"`
	AllowPublic        bool   `json:"allow_public"`
	Status             string `json:"status"`
	ExpiresAt          string `json:"expires_at,omitempty"`
	QRScans            int    `json:"qr_scans"`
	UniqueScans        int    `json:"unique_scans"`
	LastScanAt         string `json:"last_scan_at,omitempty"`
	CreatedAt          string `json:"created_at"`
}

type SubmissionResponse struct {
	ID             string `json:"id"`
	InvitationID   string `json:"invitation_id"`
	SubmitterEmail string `json:"submitter_email,omitempty"`
	Title          string `json:"title"`
	MediaURL       string `json:"media_url,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	ApprovedAt     string `json:"approved_at,omitempty"`
}

type DailyAnalyticResponse struct {
	StatDate    string `json:"stat_date"`
	Scans       int    `json:"scans"`
	UniqueScans int    `json:"unique_scans"`
	Submissions int    `json:"submissions"`
}

type ScanEventResponse struct {
	ID        int64  `json:"id"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent,omitempty"`
	Referer   string `json:"referer,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *InvitationHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	var req CreateInvitationRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.InvitedEmail = strings.ToLower(strings.TrimSpace(req.InvitedEmail))
	if err := validator.Title(req.Title); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Message(req.Message); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if req.InvitedEmail != "" {
		if err := validator.Email(req.InvitedEmail); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	} else if !req.AllowPublic {
		return respondError(c, http.StatusBadRequest, msgInvitedEmailRequired)
	}
	if req.MaxSubmissions != nil && *req.MaxSubmissions <= 0 {
		return respondError(c, http.StatusBadRequest, msgMaxSubmissionsPositive)
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return respondError(c, http.StatusBadRequest, msgExpiryInFuture)
	}

	inv, err := h.invites.Create(c.Request().Context(), invite.CreateInput{
		OwnerID:        userID,
		InvitedEmail:   req.InvitedEmail,
		Title:          req.Title,
		Message:        req.Message,
		MaxSubmissions: req.MaxSubmissions,
		AllowPublic:    req.AllowPublic,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, invitationResponse(inv))
}

func (h *InvitationHandler) List(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	invitations, err := h.invites.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	out := make([]InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		out = append(out, invitationResponse(inv))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvitationHandler) Get(c echo.Context) error {
	invitationID, userID, err := h.invitationScope(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	inv, err := h.invites.Get(c.Request().Context(), invitationID, userID)
	if err != nil {
		return h.respondOwnerScoped(c, err)
	}

	return c.JSON(http.StatusOK, invitationResponse(inv))
}

func (h *InvitationHandler) Close(c echo.Context) error {
	invitationID, userID, err := h.invitationScope(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	if err := h.invites.Close(c.Request().Context(), invitationID, userID); err != nil {
		return h.respondOwnerScoped(c, err)
	}

	return respondMessage(c, http.StatusOK, msgInvitationClosed)
}

func (h *InvitationHandler) ListSubmissions(c echo.Context) error {
	invitationID, userID, err := h.invitationScope(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	submissions, err := h.invites.ListSubmissions(c.Request().Context(), invitationID, userID)
	if err != nil {
		return h.respondOwnerScoped(c, err)
	}

	out := make([]SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, submissionResponse(sub))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvitationHandler) Analytics(c echo.Context) error {
	invitationID, userID, err := h.invitationScope(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	days, _ := strconv.Atoi(c.QueryParam(queryDays))
	stats, err := h.invites.Analytics(c.Request().Context(), invitationID, userID, days)
	if err != nil {
		return h.respondOwnerScoped(c, err)
	}

	out := make([]DailyAnalyticResponse, 0, len(stats))
	for _, stat := range stats {
		out = append(out, DailyAnalyticResponse{
			StatDate:    stat.StatDate.Format("2006-01-02"),
			Scans:       stat.Scans,
			UniqueScans: stat.UniqueScans,
			Submissions: stat.Submissions,
		})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvitationHandler) Scans(c echo.Context) error {
	invitationID, userID, err := h.invitationScope(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam(queryLimit))
	events, err := h.invites.Scans(c.Request().Context(), invitationID, userID, limit)
	if err != nil {
		return h.respondOwnerScoped(c, err)
	}

	out := make([]ScanEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, ScanEventResponse{
			ID:        ev.ID,
			IP:        ev.IP,
			UserAgent: ev.UserAgent,
			Referer:   ev.Referer,
			CreatedAt: ev.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvitationHandler) ApproveSubmission(c echo.Context) error {
	return h.updateSubmission(c, invitedomain.SubmissionStatusApproved)
}

func (h *InvitationHandler) RejectSubmission(c echo.Context) error {
	return h.updateSubmission(c, invitedomain.SubmissionStatusRejected)
}

func (h *InvitationHandler) updateSubmission(c echo.Context, status invitedomain.SubmissionStatus) error {
	submissionID, err := pathUUID(c, paramID)
	if err != nil {
		return handleHTTPError(c, err)
	}

	userID, err := auth.GetUserID(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	sub, err := h.invites.UpdateSubmissionStatus(c.Request().Context(), submissionID, userID, status)
	if err != nil {
		return h.respondOwnerScoped(c, err)
	}

	return c.JSON(http.StatusOK, submissionResponse(sub))
}

func (h *InvitationHandler) invitationScope(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	id, err := pathUUID(c, paramID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	uid, err := auth.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return id, uid, nil
}

// respondOwnerScoped hides both "not yours" and "does not exist" behind the
// same 404 so callers cannot probe other owners' resources.
func (h *InvitationHandler) respondOwnerScoped(c echo.Context, err error) error {
	if apperrors.IsForbidden(err) || apperrors.IsNotFound(err) {
		return SafeErrorResponse(c, err)
	}
	return RespondWithMappedError(c, err)
}

func invitationResponse(inv *invitedomain.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:                 inv.ID.String(),
		Token:              inv.Token,
		InvitedEmail:       inv.InvitedEmail,
		Title:              inv.Title,
		Message:            inv.Message,
		MaxSubmissions:     inv.MaxSubmissions,
		CurrentSubmissions: inv.CurrentSubmissions,
		AllowPublic:        inv.AllowPublic,
		Status:             string(inv.Status),
		ExpiresAt:          formatTimePtr(inv.ExpiresAt),
		QRScans:            inv.QRScans,
		UniqueScans:        inv.UniqueScans,
		LastScanAt:         formatTimePtr(inv.LastScanAt),
		CreatedAt:          inv.CreatedAt.Format(time.RFC3339),
	}
}

func submissionResponse(sub *invitedomain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:             sub.ID.String(),
		InvitationID:   sub.InvitationID.String(),
		SubmitterEmail: sub.SubmitterEmail,
		Title:          sub.Title,
		MediaURL:       sub.MediaURL,
		Notes:          sub.Notes,
		Status:         string(sub.Status),
		CreatedAt:      sub.CreatedAt.Format(time.RFC3339),
		ApprovedAt:     formatTimePtr(sub.ApprovedAt),
	}
}
