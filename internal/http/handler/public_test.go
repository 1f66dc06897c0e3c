package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	invitedomain "memowindow/internal/domain/invite"
	"memowindow/internal/invite"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicValidate(t *testing.T) {
	e := echo.New()
	svc := &fakeInviteService{
		validateFn: func(_ context.Context, token, email string, scan invitedomain.ScanContext) (*invite.Validation, error) {
			assert.Equal(t, "tok123", token)
			assert.NotEmpty(t, scan.IP)
			return &invite.Validation{
				Valid: true,
				Invitation: &invitedomain.Invitation{
					Title:   "share a memory",
					Message: "we miss you",
				},
			}, nil
		},
	}
	h := NewPublicHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/invite/tok123", nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues("tok123")

	require.NoError(t, h.Validate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateInvitationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "share a memory", resp.Title)
}

func TestPublicValidate_ReturnsReason(t *testing.T) {
	e := echo.New()
	svc := &fakeInviteService{
		validateFn: func(context.Context, string, string, invitedomain.ScanContext) (*invite.Validation, error) {
			return &invite.Validation{Reason: invite.ReasonClosed}, nil
		},
	}
	h := NewPublicHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/invite/tok123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues("tok123")

	require.NoError(t, h.Validate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateInvitationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, invite.ReasonClosed, resp.Reason)
}

func TestSubmitMemory(t *testing.T) {
	e := echo.New()
	svc := &fakeInviteService{
		submitFn: func(_ context.Context, input invite.SubmitInput) (*invitedomain.Submission, error) {
			assert.Equal(t, "tok123", input.Token)
			assert.Equal(t, "guest@example.com", input.SubmitterEmail)
			return &invitedomain.Submission{
				ID:           uuid.New(),
				InvitationID: uuid.New(),
				Title:        input.Title,
				Status:       invitedomain.SubmissionStatusPending,
				CreatedAt:    time.Now(),
			}, nil
		},
	}
	h := NewPublicHandler(svc)

	req := jsonRequest(http.MethodPost, "/invite/tok123/submissions", `{"title":"a memory","submitter_email":"Guest@Example.com"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues("tok123")

	require.NoError(t, h.SubmitMemory(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
}

func TestSubmitMemory_ValidationReasonSurfaced(t *testing.T) {
	e := echo.New()
	svc := &fakeInviteService{
		submitFn: func(context.Context, invite.SubmitInput) (*invitedomain.Submission, error) {
			return nil, apperrors.Validation(invite.ReasonCapReached)
		},
	}
	h := NewPublicHandler(svc)

	req := jsonRequest(http.MethodPost, "/invite/tok123/submissions", `{"title":"a memory"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues("tok123")

	require.NoError(t, h.SubmitMemory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), invite.ReasonCapReached)
}

func TestSubmitMemory_MissingTitle(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(&fakeInviteService{})

	req := jsonRequest(http.MethodPost, "/invite/tok123/submissions", `{}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues("tok123")

	require.NoError(t, h.SubmitMemory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
