package handler

import (
	"net/http"
	"strings"
	"time"

	"memowindow/internal/auth"
	"memowindow/internal/domain/media"
	apperrors "memowindow/pkg/errors"
	"memowindow/pkg/validator"

	"github.com/labstack/echo/v4"
)

type MediaHandler struct {
	media MediaStore
}

func NewMediaHandler(media MediaStore) *MediaHandler {
	return &MediaHandler{media: media}
}

type CreateMediaRequest struct {
	Title    string `json:"title"`
	AudioURL string `json:"audio_url"`
}

type MediaResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	AudioURL        string `json:"audio_url"`
	SizeBytes       int64  `json:"size_bytes"`
	BackupStatus    string `json:"backup_status"`
	LastBackupCheck string `json:"last_backup_check,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func (h *MediaHandler) Create(c echo.Context) error {
	var req CreateMediaRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validateMediaInput(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	asset, err := h.media.Create(c.Request().Context(), media.CreateAssetInput{
		OwnerID:  userID,
		Title:    req.Title,
		AudioURL: req.AudioURL,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, mediaResponse(asset))
}

func (h *MediaHandler) Get(c echo.Context) error {
	mediaID, err := pathUUID(c, paramID)
	if err != nil {
		return respondRequestError(c, err)
	}

	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	asset, err := h.media.GetByID(c.Request().Context(), mediaID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return SafeErrorResponse(c, err)
		}
		return RespondWithMappedError(c, err)
	}
	if asset.OwnerID != userID {
		return SafeErrorResponse(c, apperrors.NotFound(msgNotFound))
	}

	return c.JSON(http.StatusOK, mediaResponse(asset))
}

func validateMediaInput(req CreateMediaRequest) error {
	if err := validator.Title(req.Title); err != nil {
		return err
	}
	return validator.MediaURL(req.AudioURL)
}

func mediaResponse(asset *media.Asset) MediaResponse {
	return MediaResponse{
		ID:              asset.ID.String(),
		Title:           asset.Title,
		AudioURL:        asset.AudioURL,
		SizeBytes:       asset.SizeBytes,
		BackupStatus:    string(asset.BackupStatus),
		LastBackupCheck: formatTimePtr(asset.LastBackupCheck),
		CreatedAt:       asset.CreatedAt.Format(time.RFC3339),
	}
}
