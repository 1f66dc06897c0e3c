package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"memowindow/internal/backup"
	"memowindow/internal/domain/media"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMediaGetter struct {
	assets map[uuid.UUID]*media.Asset
}

func (f *fakeMediaGetter) GetByID(_ context.Context, id uuid.UUID) (*media.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return nil, apperrors.NotFound("media not found")
	}
	return asset, nil
}

type fakeBackupService struct {
	createFn     func(ctx context.Context, mediaID uuid.UUID) (*backup.CreateResult, error)
	verifyFn     func(ctx context.Context, mediaID uuid.UUID) ([]backup.VerifyResult, error)
	restoreFn    func(ctx context.Context, mediaID uuid.UUID) (*backup.RestoreResult, error)
	createAllFn  func(ctx context.Context) (*backup.BulkReport, error)
	verifyAllFn  func(ctx context.Context) (*backup.BulkReport, error)
	restoreAllFn func(ctx context.Context) (*backup.BulkReport, error)
}

func (f *fakeBackupService) CreateBackups(ctx context.Context, mediaID uuid.UUID) (*backup.CreateResult, error) {
	return f.createFn(ctx, mediaID)
}

func (f *fakeBackupService) VerifyBackups(ctx context.Context, mediaID uuid.UUID) ([]backup.VerifyResult, error) {
	return f.verifyFn(ctx, mediaID)
}

func (f *fakeBackupService) RestoreFromBackup(ctx context.Context, mediaID uuid.UUID) (*backup.RestoreResult, error) {
	return f.restoreFn(ctx, mediaID)
}

func (f *fakeBackupService) CreateAllBackups(ctx context.Context) (*backup.BulkReport, error) {
	return f.createAllFn(ctx)
}

func (f *fakeBackupService) VerifyAllBackups(ctx context.Context) (*backup.BulkReport, error) {
	return f.verifyAllFn(ctx)
}

func (f *fakeBackupService) RestoreAllBackups(ctx context.Context) (*backup.BulkReport, error) {
	return f.restoreAllFn(ctx)
}

func seededMedia(ownerID uuid.UUID) (*fakeMediaGetter, uuid.UUID) {
	mediaID := uuid.New()
	getter := &fakeMediaGetter{assets: map[uuid.UUID]*media.Asset{
		mediaID: {
			ID:      mediaID,
			OwnerID: ownerID,
			Title:   "voicemail from mom",
		},
	}}
	return getter, mediaID
}

func mediaContext(e *echo.Echo, method, target string, rec *httptest.ResponseRecorder, userID, mediaID uuid.UUID) echo.Context {
	req := httptest.NewRequest(method, target, nil)
	c := authedContext(e, req, rec, userID)
	c.SetParamNames(paramID)
	c.SetParamValues(mediaID.String())
	return c
}

func TestCreateBackups(t *testing.T) {
	e := echo.New()
	ownerID := uuid.New()
	getter, mediaID := seededMedia(ownerID)

	svc := &fakeBackupService{
		createFn: func(_ context.Context, id uuid.UUID) (*backup.CreateResult, error) {
			assert.Equal(t, mediaID, id)
			return &backup.CreateResult{
				MediaID:        id,
				Replication:    backup.ReplicationFull,
				BackupsCreated: 2,
				TotalSize:      2048,
				Checksum:       "deadbeef",
			}, nil
		},
	}
	h := NewBackupHandler(getter, svc)

	rec := httptest.NewRecorder()
	c := mediaContext(e, http.MethodPost, "/media/:id/backup", rec, ownerID, mediaID)

	require.NoError(t, h.CreateBackups(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CreateBackupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(backup.ReplicationFull), resp.Replication)
	assert.Equal(t, 2, resp.BackupsCreated)
	assert.Equal(t, "deadbeef", resp.Checksum)
}

func TestCreateBackups_WrongOwnerMaskedAsNotFound(t *testing.T) {
	e := echo.New()
	getter, mediaID := seededMedia(uuid.New())

	h := NewBackupHandler(getter, &fakeBackupService{})

	rec := httptest.NewRecorder()
	c := mediaContext(e, http.MethodPost, "/media/:id/backup", rec, uuid.New(), mediaID)

	require.NoError(t, h.CreateBackups(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBackups_BadMediaID(t *testing.T) {
	e := echo.New()
	getter, _ := seededMedia(uuid.New())

	h := NewBackupHandler(getter, &fakeBackupService{})

	req := httptest.NewRequest(http.MethodPost, "/media/:id/backup", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New())
	c.SetParamNames(paramID)
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.CreateBackups(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyBackups(t *testing.T) {
	e := echo.New()
	ownerID := uuid.New()
	getter, mediaID := seededMedia(ownerID)

	backupID := uuid.New()
	svc := &fakeBackupService{
		verifyFn: func(_ context.Context, id uuid.UUID) ([]backup.VerifyResult, error) {
			return []backup.VerifyResult{
				{BackupID: backupID, Location: "https://mirror.example.com/a.mp3", Reachable: true},
				{BackupID: uuid.New(), Location: "https://archive.example.com/a.mp3", Reachable: false, FailCount: 3, Demoted: true},
			}, nil
		},
	}
	h := NewBackupHandler(getter, svc)

	rec := httptest.NewRecorder()
	c := mediaContext(e, http.MethodGet, "/media/:id/backup/verify", rec, ownerID, mediaID)

	require.NoError(t, h.VerifyBackups(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []VerifyBackupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, backupID.String(), resp[0].BackupID)
	assert.True(t, resp[0].Reachable)
	assert.True(t, resp[1].Demoted)
	assert.Equal(t, 3, resp[1].FailCount)
}

func TestRestoreFromBackup(t *testing.T) {
	e := echo.New()
	ownerID := uuid.New()
	getter, mediaID := seededMedia(ownerID)

	sourceID := uuid.New()
	svc := &fakeBackupService{
		restoreFn: func(_ context.Context, id uuid.UUID) (*backup.RestoreResult, error) {
			return &backup.RestoreResult{
				MediaID:      id,
				RestoredFrom: sourceID,
				AudioURL:     "https://primary.example.com/a.mp3",
				SizeBytes:    2048,
				Checksum:     "deadbeef",
			}, nil
		},
	}
	h := NewBackupHandler(getter, svc)

	rec := httptest.NewRecorder()
	c := mediaContext(e, http.MethodPost, "/media/:id/restore", rec, ownerID, mediaID)

	require.NoError(t, h.RestoreFromBackup(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RestoreBackupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, sourceID.String(), resp.RestoredFrom)
	assert.Equal(t, "https://primary.example.com/a.mp3", resp.AudioURL)
}

func TestRestoreFromBackup_NoBackups(t *testing.T) {
	e := echo.New()
	ownerID := uuid.New()
	getter, mediaID := seededMedia(ownerID)

	svc := &fakeBackupService{
		restoreFn: func(_ context.Context, _ uuid.UUID) (*backup.RestoreResult, error) {
			return nil, apperrors.NoBackupFound("no backup found for media")
		},
	}
	h := NewBackupHandler(getter, svc)

	rec := httptest.NewRecorder()
	c := mediaContext(e, http.MethodPost, "/media/:id/restore", rec, ownerID, mediaID)

	require.NoError(t, h.RestoreFromBackup(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAllBackups(t *testing.T) {
	e := echo.New()
	failedID := uuid.New()

	svc := &fakeBackupService{
		createAllFn: func(_ context.Context) (*backup.BulkReport, error) {
			return &backup.BulkReport{
				Processed: 3,
				Succeeded: 2,
				Failed:    1,
				Details:   []backup.BulkDetail{{MediaID: failedID, Error: "failed"}},
			}, nil
		},
	}
	h := NewBackupHandler(&fakeMediaGetter{}, svc)

	req := httptest.NewRequest(http.MethodPost, "/admin/backups/create-all", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New())

	require.NoError(t, h.CreateAllBackups(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp BulkReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Processed)
	assert.Equal(t, 2, resp.Succeeded)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, failedID.String(), resp.Details[0].MediaID)
}
