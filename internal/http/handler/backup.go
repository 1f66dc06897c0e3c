package handler

import (
	"net/http"
	"time"

	"memowindow/internal/auth"
	"memowindow/internal/backup"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BackupHandler struct {
	media   MediaGetter
	backups BackupService
}

func NewBackupHandler(media MediaGetter, backups BackupService) *BackupHandler {
	return &BackupHandler{
		media:   media,
		backups: backups,
	}
}

type CreateBackupResponse struct {
	MediaID        string `json:"media_id"`
	Replication    string `json:"replication"`
	BackupsCreated int    `json:"backups_created"`
	TotalSize      int64  `json:"total_size"`
	Checksum       string `json:"checksum"`
}

type VerifyBackupResponse struct {
	BackupID  string `json:"backup_id"`
	Location  string `json:"location"`
	Reachable bool   `json:"reachable"`
	FailCount int    `json:"fail_count"`
	Demoted   bool   `json:"demoted"`
}

type RestoreBackupResponse struct {
	MediaID      string `json:"media_id"`
	RestoredFrom string `json:"restored_from"`
	AudioURL     string `json:"audio_url"`
	SizeBytes    int64  `json:"size_bytes"`
	Checksum     string `json:"checksum"`
}

type BulkReportResponse struct {
	Processed int                  `json:"processed"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Details   []BulkDetailResponse `json:"details,omitempty"`
}

type BulkDetailResponse struct {
	MediaID string `json:"media_id"`
	Error   string `json:"error"`
}

// ownedMedia resolves the asset and hides other owners' assets behind 404.
func (h *BackupHandler) ownedMedia(c echo.Context) (uuid.UUID, error) {
	mediaID, err := pathUUID(c, paramID)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := auth.GetUserID(c)
	if err != nil {
		return uuid.Nil, err
	}

	asset, err := h.media.GetByID(c.Request().Context(), mediaID)
	if err != nil {
		return uuid.Nil, err
	}
	if asset.OwnerID != userID {
		return uuid.Nil, apperrors.NotFound(msgNotFound)
	}

	return mediaID, nil
}

func (h *BackupHandler) CreateBackups(c echo.Context) error {
	mediaID, err := h.ownedMedia(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	result, err := h.backups.CreateBackups(c.Request().Context(), mediaID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, CreateBackupResponse{
		MediaID:        result.MediaID.String(),
		Replication:    string(result.Replication),
		BackupsCreated: result.BackupsCreated,
		TotalSize:      result.TotalSize,
		Checksum:       result.Checksum,
	})
}

func (h *BackupHandler) VerifyBackups(c echo.Context) error {
	mediaID, err := h.ownedMedia(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	results, err := h.backups.VerifyBackups(c.Request().Context(), mediaID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	out := make([]VerifyBackupResponse, 0, len(results))
	for _, res := range results {
		out = append(out, VerifyBackupResponse{
			BackupID:  res.BackupID.String(),
			Location:  res.Location,
			Reachable: res.Reachable,
			FailCount: res.FailCount,
			Demoted:   res.Demoted,
		})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BackupHandler) RestoreFromBackup(c echo.Context) error {
	mediaID, err := h.ownedMedia(c)
	if err != nil {
		return respondRequestError(c, err)
	}

	result, err := h.backups.RestoreFromBackup(c.Request().Context(), mediaID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, RestoreBackupResponse{
		MediaID:      result.MediaID.String(),
		RestoredFrom: result.RestoredFrom.String(),
		AudioURL:     result.AudioURL,
		SizeBytes:    result.SizeBytes,
		Checksum:     result.Checksum,
	})
}

func (h *BackupHandler) CreateAllBackups(c echo.Context) error {
	report, err := h.backups.CreateAllBackups(c.Request().Context())
	if err != nil {
		return RespondWithMappedError(c, err)
	}
	return c.JSON(http.StatusOK, bulkReportResponse(report))
}

func (h *BackupHandler) VerifyAllBackups(c echo.Context) error {
	report, err := h.backups.VerifyAllBackups(c.Request().Context())
	if err != nil {
		return RespondWithMappedError(c, err)
	}
	return c.JSON(http.StatusOK, bulkReportResponse(report))
}

func (h *BackupHandler) RestoreAllBackups(c echo.Context) error {
	report, err := h.backups.RestoreAllBackups(c.Request().Context())
	if err != nil {
		return RespondWithMappedError(c, err)
	}
	return c.JSON(http.StatusOK, bulkReportResponse(report))
}

func bulkReportResponse(report *backup.BulkReport) BulkReportResponse {
	out := BulkReportResponse{
		Processed: report.Processed,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}
	for _, detail := range report.Details {
		out.Details = append(out.Details, BulkDetailResponse{
			MediaID: detail.MediaID.String(),
			Error:   detail.Error,
		})
	}
	return out
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
