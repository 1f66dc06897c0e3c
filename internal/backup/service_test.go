package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"memowindow/internal/config"
	backupdomain "memowindow/internal/domain/backup"
	"memowindow/internal/domain/media"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMediaStore struct {
	assets map[uuid.UUID]*media.Asset
}

func (f *fakeMediaStore) GetByID(_ context.Context, id uuid.UUID) (*media.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return nil, apperrors.NotFound("media asset not found")
	}
	return asset, nil
}

func (f *fakeMediaStore) ListByBackupStatus(_ context.Context, statuses []media.BackupStatus) ([]*media.Asset, error) {
	var out []*media.Asset
	for _, asset := range f.assets {
		for _, status := range statuses {
			if asset.BackupStatus == status {
				out = append(out, asset)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeMediaStore) ListWithBackups(_ context.Context) ([]*media.Asset, error) {
	var out []*media.Asset
	for _, asset := range f.assets {
		out = append(out, asset)
	}
	return out, nil
}

func (f *fakeMediaStore) SetBackupStatus(_ context.Context, id uuid.UUID, status media.BackupStatus, checkedAt time.Time) error {
	asset, ok := f.assets[id]
	if !ok {
		return apperrors.NotFound("media asset not found")
	}
	asset.BackupStatus = status
	t := checkedAt
	asset.LastBackupCheck = &t
	return nil
}

func (f *fakeMediaStore) SetPrimaryLocation(_ context.Context, id uuid.UUID, audioURL string, sizeBytes int64) error {
	asset, ok := f.assets[id]
	if !ok {
		return apperrors.NotFound("media asset not found")
	}
	asset.AudioURL = audioURL
	asset.SizeBytes = sizeBytes
	return nil
}

type fakeBackupStore struct {
	records []*backupdomain.Record
	seq     int
}

func (f *fakeBackupStore) Create(_ context.Context, input backupdomain.CreateRecordInput) (*backupdomain.Record, error) {
	f.seq++
	rec := &backupdomain.Record{
		ID:        uuid.New(),
		MediaID:   input.MediaID,
		Kind:      input.Kind,
		Location:  input.Location,
		SizeBytes: input.SizeBytes,
		Checksum:  input.Checksum,
		Status:    input.Status,
		CreatedAt: time.Unix(int64(f.seq), 0),
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeBackupStore) ListByMedia(_ context.Context, mediaID uuid.UUID) ([]*backupdomain.Record, error) {
	var out []*backupdomain.Record
	for _, rec := range f.records {
		if rec.MediaID == mediaID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeBackupStore) LatestActiveByMedia(_ context.Context, mediaID uuid.UUID) (*backupdomain.Record, error) {
	var latest *backupdomain.Record
	for _, rec := range f.records {
		if rec.MediaID != mediaID || rec.Status != backupdomain.StatusActive {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, apperrors.NoBackupFound("backup record not found")
	}
	return latest, nil
}

func (f *fakeBackupStore) MarkVerified(_ context.Context, id uuid.UUID, verifiedAt time.Time) error {
	rec := f.byID(id)
	if rec == nil {
		return apperrors.NotFound("backup record not found")
	}
	t := verifiedAt
	rec.VerifiedAt = &t
	rec.FailCount = 0
	return nil
}

func (f *fakeBackupStore) RecordProbeFailure(_ context.Context, id uuid.UUID, staleThreshold int) (int, error) {
	rec := f.byID(id)
	if rec == nil {
		return 0, apperrors.NotFound("backup record not found")
	}
	rec.FailCount++
	if rec.FailCount >= staleThreshold {
		rec.Status = backupdomain.StatusStale
	}
	return rec.FailCount, nil
}

func (f *fakeBackupStore) SetStatus(_ context.Context, id uuid.UUID, status backupdomain.Status) error {
	rec := f.byID(id)
	if rec == nil {
		return apperrors.NotFound("backup record not found")
	}
	rec.Status = status
	return nil
}

func (f *fakeBackupStore) byID(id uuid.UUID) *backupdomain.Record {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

type fakeStorage struct {
	objects     map[string][]byte
	failBuckets map[string]bool
}

func (f *fakeStorage) Upload(_ context.Context, bucketName, objectKey string, body []byte, _ string) (string, error) {
	if f.failBuckets[bucketName] {
		return "", errors.New("bucket rejected upload")
	}
	url := f.ObjectURL(bucketName, objectKey)
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[url] = body
	return url, nil
}

func (f *fakeStorage) ObjectURL(bucketName, objectKey string) string {
	return fmt.Sprintf("https://%s.example.com/%s", bucketName, objectKey)
}

type fakeFetcher struct {
	storage *fakeStorage
	sources map[string][]byte
	err     error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if body, ok := f.sources[url]; ok {
		return body, nil
	}
	if f.storage != nil {
		if body, ok := f.storage.objects[url]; ok {
			return body, nil
		}
	}
	return nil, errors.New("source not found")
}

type fakeProber struct {
	unreachable map[string]bool
}

func (f *fakeProber) Probe(_ context.Context, url string) error {
	if f.unreachable[url] {
		return errors.New("probe failed: 404")
	}
	return nil
}

func testConfig() *config.BackupConfig {
	return &config.BackupConfig{
		PrimaryBucket:  "primary",
		MirrorBucket:   "mirror",
		ArchiveBucket:  "archive",
		FetchTimeout:   time.Second,
		ProbeTimeout:   time.Second,
		StaleThreshold: 3,
	}
}

func newTestService(assets ...*media.Asset) (*Service, *fakeMediaStore, *fakeBackupStore, *fakeStorage, *fakeFetcher, *fakeProber) {
	mediaStore := &fakeMediaStore{assets: map[uuid.UUID]*media.Asset{}}
	for _, asset := range assets {
		mediaStore.assets[asset.ID] = asset
	}
	backupStore := &fakeBackupStore{}
	storage := &fakeStorage{}
	fetcher := &fakeFetcher{storage: storage, sources: map[string][]byte{}}
	prober := &fakeProber{unreachable: map[string]bool{}}

	svc := NewService(mediaStore, backupStore, storage, fetcher, prober, testConfig())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	return svc, mediaStore, backupStore, storage, fetcher, prober
}

func testAsset() *media.Asset {
	return &media.Asset{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		Title:        "anniversary message",
		AudioURL:     "https://source.example.com/a.mp3",
		BackupStatus: media.BackupStatusPending,
	}
}

func TestCreateBackups_FullReplication(t *testing.T) {
	asset := testAsset()
	svc, mediaStore, backupStore, _, fetcher, _ := newTestService(asset)

	body := []byte("audio-bytes")
	fetcher.sources[asset.AudioURL] = body
	sum := sha256.Sum256(body)
	wantChecksum := hex.EncodeToString(sum[:])

	result, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, ReplicationFull, result.Replication)
	assert.Equal(t, 2, result.BackupsCreated)
	assert.Equal(t, int64(len(body)), result.TotalSize)
	assert.Equal(t, wantChecksum, result.Checksum)

	// ledger row count matches accepted uploads
	require.Len(t, backupStore.records, 2)

	// both destinations record identical checksum and size
	for _, rec := range backupStore.records {
		assert.Equal(t, wantChecksum, rec.Checksum)
		assert.Equal(t, int64(len(body)), rec.SizeBytes)
		assert.Equal(t, backupdomain.StatusActive, rec.Status)
	}
	assert.NotEqual(t, backupStore.records[0].Location, backupStore.records[1].Location)

	assert.Equal(t, media.BackupStatusCompleted, mediaStore.assets[asset.ID].BackupStatus)
	assert.NotNil(t, mediaStore.assets[asset.ID].LastBackupCheck)
}

func TestCreateBackups_PartialReplication(t *testing.T) {
	asset := testAsset()
	svc, mediaStore, backupStore, storage, fetcher, _ := newTestService(asset)

	fetcher.sources[asset.AudioURL] = []byte("audio-bytes")
	storage.failBuckets = map[string]bool{"archive": true}

	result, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, ReplicationPartial, result.Replication)
	assert.Equal(t, 1, result.BackupsCreated)
	require.Len(t, backupStore.records, 1)
	assert.Equal(t, backupdomain.KindMirror, backupStore.records[0].Kind)
	assert.Equal(t, media.BackupStatusPartial, mediaStore.assets[asset.ID].BackupStatus)
}

func TestCreateBackups_FetchFailure(t *testing.T) {
	asset := testAsset()
	svc, mediaStore, backupStore, _, fetcher, _ := newTestService(asset)
	fetcher.err = errors.New("connection refused")

	result, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, ReplicationFailed, result.Replication)
	assert.Zero(t, result.BackupsCreated)
	assert.Empty(t, backupStore.records)
	assert.Equal(t, media.BackupStatusFailed, mediaStore.assets[asset.ID].BackupStatus)
	assert.NotNil(t, mediaStore.assets[asset.ID].LastBackupCheck)
}

func TestCreateBackups_UnknownAsset(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.CreateBackups(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVerifyBackups_ReachableMarksVerified(t *testing.T) {
	asset := testAsset()
	svc, _, backupStore, _, fetcher, _ := newTestService(asset)
	fetcher.sources[asset.AudioURL] = []byte("audio-bytes")

	_, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	results, err := svc.VerifyBackups(context.Background(), asset.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		assert.True(t, res.Reachable)
		assert.Zero(t, res.FailCount)
	}
	for _, rec := range backupStore.records {
		assert.NotNil(t, rec.VerifiedAt)
		assert.Zero(t, rec.FailCount)
	}
}

func TestVerifyBackups_UnreachableNeverTouchesVerifiedAt(t *testing.T) {
	asset := testAsset()
	svc, _, backupStore, _, fetcher, prober := newTestService(asset)
	fetcher.sources[asset.AudioURL] = []byte("audio-bytes")

	_, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	for _, rec := range backupStore.records {
		prober.unreachable[rec.Location] = true
	}

	results, err := svc.VerifyBackups(context.Background(), asset.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		assert.False(t, res.Reachable)
		assert.Equal(t, 1, res.FailCount)
		assert.False(t, res.Demoted)
	}
	for _, rec := range backupStore.records {
		assert.Nil(t, rec.VerifiedAt)
	}
}

func TestVerifyBackups_DemotesToStaleAtThreshold(t *testing.T) {
	asset := testAsset()
	svc, _, backupStore, _, fetcher, prober := newTestService(asset)
	fetcher.sources[asset.AudioURL] = []byte("audio-bytes")

	_, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	for _, rec := range backupStore.records {
		prober.unreachable[rec.Location] = true
	}

	for i := 0; i < 3; i++ {
		_, err := svc.VerifyBackups(context.Background(), asset.ID)
		require.NoError(t, err)
	}

	for _, rec := range backupStore.records {
		assert.Equal(t, backupdomain.StatusStale, rec.Status)
		assert.Equal(t, 3, rec.FailCount)
		assert.Nil(t, rec.VerifiedAt)
	}

	// stale records are skipped on later runs
	results, err := svc.VerifyBackups(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRestoreFromBackup_NoBackups(t *testing.T) {
	asset := testAsset()
	svc, _, _, _, _, _ := newTestService(asset)

	_, err := svc.RestoreFromBackup(context.Background(), asset.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoBackupFound)
}

func TestRestoreFromBackup_LedgerFirst(t *testing.T) {
	asset := testAsset()
	svc, mediaStore, backupStore, _, fetcher, _ := newTestService(asset)

	body := []byte("audio-bytes")
	fetcher.sources[asset.AudioURL] = body

	_, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	result, err := svc.RestoreFromBackup(context.Background(), asset.ID)
	require.NoError(t, err)

	restored := backupStore.byID(result.LedgerID)
	require.NotNil(t, restored)
	assert.Equal(t, backupdomain.KindRestored, restored.Kind)
	assert.Equal(t, backupdomain.StatusActive, restored.Status)

	assert.Equal(t, result.AudioURL, mediaStore.assets[asset.ID].AudioURL)
	assert.Equal(t, int64(len(body)), mediaStore.assets[asset.ID].SizeBytes)
	assert.Equal(t, media.BackupStatusRestored, mediaStore.assets[asset.ID].BackupStatus)
}

func TestRestoreFromBackup_TwiceLeavesTwoRestoredRows(t *testing.T) {
	asset := testAsset()
	svc, mediaStore, backupStore, _, fetcher, _ := newTestService(asset)

	body := []byte("audio-bytes")
	fetcher.sources[asset.AudioURL] = body

	_, err := svc.CreateBackups(context.Background(), asset.ID)
	require.NoError(t, err)

	first, err := svc.RestoreFromBackup(context.Background(), asset.ID)
	require.NoError(t, err)
	second, err := svc.RestoreFromBackup(context.Background(), asset.ID)
	require.NoError(t, err)

	// same content restored both times
	assert.Equal(t, first.Checksum, second.Checksum)
	assert.Equal(t, first.SizeBytes, second.SizeBytes)

	var restoredRows int
	for _, rec := range backupStore.records {
		if rec.Kind == backupdomain.KindRestored {
			restoredRows++
		}
	}
	assert.Equal(t, 2, restoredRows)
	assert.Equal(t, media.BackupStatusRestored, mediaStore.assets[asset.ID].BackupStatus)
}

func TestCreateAllBackups_OneFailureDoesNotAbort(t *testing.T) {
	good := testAsset()
	bad := testAsset()
	bad.AudioURL = "https://source.example.com/missing.mp3"

	svc, _, _, _, fetcher, _ := newTestService(good, bad)
	fetcher.sources[good.AudioURL] = []byte("audio-bytes")

	report, err := svc.CreateAllBackups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Details, 1)
	assert.Equal(t, bad.ID, report.Details[0].MediaID)
}
