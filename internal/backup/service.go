// Package backup replicates media audio to redundant storage tiers, keeps
// a relational ledger of every copy, and restores primary storage from the
// ledger when needed.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"memowindow/internal/config"
	backupdomain "memowindow/internal/domain/backup"
	"memowindow/internal/domain/media"

	"github.com/google/uuid"
)

const audioContentType = "audio/mpeg"

// Replication classifies a backup run by how many destinations accepted
// the copy: all, some, or none.
type Replication string

const (
	ReplicationFull    Replication = "full"
	ReplicationPartial Replication = "partial"
	ReplicationFailed  Replication = "failed"
)

type CreateResult struct {
	MediaID        uuid.UUID
	Replication    Replication
	BackupsCreated int
	TotalSize      int64
	Checksum       string
}

type VerifyResult struct {
	BackupID  uuid.UUID
	Location  string
	Reachable bool
	FailCount int
	Demoted   bool
}

type RestoreResult struct {
	MediaID      uuid.UUID
	RestoredFrom uuid.UUID
	LedgerID     uuid.UUID
	AudioURL     string
	SizeBytes    int64
	Checksum     string
}

// BulkReport aggregates a sequential batch run. One item's failure never
// aborts the rest of the batch.
type BulkReport struct {
	Processed int
	Succeeded int
	Failed    int
	Details   []BulkDetail
}

type BulkDetail struct {
	MediaID uuid.UUID
	Error   string
}

type Service struct {
	media   MediaStore
	backups BackupStore
	storage ObjectStorage
	fetcher Fetcher
	prober  Prober
	cfg     *config.BackupConfig
	now     func() time.Time
}

func NewService(mediaStore MediaStore, backupStore BackupStore, storage ObjectStorage, fetcher Fetcher, prober Prober, cfg *config.BackupConfig) *Service {
	return &Service{
		media:   mediaStore,
		backups: backupStore,
		storage: storage,
		fetcher: fetcher,
		prober:  prober,
		cfg:     cfg,
		now:     time.Now,
	}
}

// CreateBackups fetches the asset's audio once and writes the same bytes to
// the mirror and archive buckets. One ledger row is inserted per destination
// that accepted the copy; the asset's denormalized status reflects whether
// replication was full, partial, or failed.
func (s *Service) CreateBackups(ctx context.Context, mediaID uuid.UUID) (*CreateResult, error) {
	asset, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &CreateResult{MediaID: asset.ID}

	body, err := s.fetcher.Fetch(ctx, asset.AudioURL)
	if err != nil {
		result.Replication = ReplicationFailed
		if statusErr := s.media.SetBackupStatus(ctx, asset.ID, media.BackupStatusFailed, now); statusErr != nil {
			return nil, statusErr
		}
		return result, nil
	}

	sum := sha256.Sum256(body)
	result.Checksum = hex.EncodeToString(sum[:])
	result.TotalSize = int64(len(body))

	destinations := []struct {
		bucket string
		kind   backupdomain.Kind
	}{
		{s.cfg.MirrorBucket, backupdomain.KindMirror},
		{s.cfg.ArchiveBucket, backupdomain.KindArchive},
	}

	for _, dest := range destinations {
		key := objectKey(asset.ID, dest.kind, now)
		location, uploadErr := s.storage.Upload(ctx, dest.bucket, key, body, audioContentType)
		if uploadErr != nil {
			continue
		}

		if _, err := s.backups.Create(ctx, backupdomain.CreateRecordInput{
			MediaID:   asset.ID,
			Kind:      dest.kind,
			Location:  location,
			SizeBytes: result.TotalSize,
			Checksum:  result.Checksum,
			Status:    backupdomain.StatusActive,
		}); err != nil {
			return nil, err
		}

		result.BackupsCreated++
	}

	var assetStatus media.BackupStatus
	switch result.BackupsCreated {
	case len(destinations):
		result.Replication = ReplicationFull
		assetStatus = media.BackupStatusCompleted
	case 0:
		result.Replication = ReplicationFailed
		assetStatus = media.BackupStatusFailed
	default:
		result.Replication = ReplicationPartial
		assetStatus = media.BackupStatusPartial
	}

	if err := s.media.SetBackupStatus(ctx, asset.ID, assetStatus, now); err != nil {
		return nil, err
	}

	return result, nil
}

// VerifyBackups probes every non-stale ledger row for the asset. A
// reachable copy is stamped verified with its failure streak reset; an
// unreachable one has its streak bumped and is demoted to stale at the
// configured threshold. verified_at is never touched on failure.
func (s *Service) VerifyBackups(ctx context.Context, mediaID uuid.UUID) ([]VerifyResult, error) {
	if _, err := s.media.GetByID(ctx, mediaID); err != nil {
		return nil, err
	}

	records, err := s.backups.ListByMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	var results []VerifyResult
	for _, rec := range records {
		if rec.Status == backupdomain.StatusStale {
			continue
		}

		res := VerifyResult{BackupID: rec.ID, Location: rec.Location}
		if probeErr := s.prober.Probe(ctx, rec.Location); probeErr != nil {
			failCount, err := s.backups.RecordProbeFailure(ctx, rec.ID, s.cfg.StaleThreshold)
			if err != nil {
				return nil, err
			}
			res.FailCount = failCount
			res.Demoted = failCount >= s.cfg.StaleThreshold
		} else {
			if err := s.backups.MarkVerified(ctx, rec.ID, s.now()); err != nil {
				return nil, err
			}
			res.Reachable = true
		}

		results = append(results, res)
	}

	if err := s.media.SetBackupStatus(ctx, mediaID, verifyOutcome(results), s.now()); err != nil {
		return nil, err
	}

	return results, nil
}

// verifyOutcome folds probe results back into the asset's denormalized
// status for the next bulk run to pick up.
func verifyOutcome(results []VerifyResult) media.BackupStatus {
	reachable := 0
	for _, res := range results {
		if res.Reachable {
			reachable++
		}
	}

	switch {
	case len(results) == 0 || reachable == 0:
		return media.BackupStatusFailed
	case reachable == len(results):
		return media.BackupStatusCompleted
	default:
		return media.BackupStatusPartial
	}
}

// RestoreFromBackup copies the most recent active backup back to primary
// storage. The ledger row for the restored copy is inserted as pending
// before any bytes move and flipped to active only after the asset points
// at the new location, so a crash mid-restore leaves a detectable pending
// row rather than a silent mismatch.
func (s *Service) RestoreFromBackup(ctx context.Context, mediaID uuid.UUID) (*RestoreResult, error) {
	asset, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	source, err := s.backups.LatestActiveByMedia(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	key := objectKey(asset.ID, backupdomain.KindRestored, now)
	location := s.storage.ObjectURL(s.cfg.PrimaryBucket, key)

	ledger, err := s.backups.Create(ctx, backupdomain.CreateRecordInput{
		MediaID:   asset.ID,
		Kind:      backupdomain.KindRestored,
		Location:  location,
		SizeBytes: source.SizeBytes,
		Checksum:  source.Checksum,
		Status:    backupdomain.StatusPending,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, source.Location)
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.Upload(ctx, s.cfg.PrimaryBucket, key, body, audioContentType); err != nil {
		return nil, err
	}

	if err := s.media.SetPrimaryLocation(ctx, asset.ID, location, int64(len(body))); err != nil {
		return nil, err
	}
	if err := s.media.SetBackupStatus(ctx, asset.ID, media.BackupStatusRestored, now); err != nil {
		return nil, err
	}

	if err := s.backups.SetStatus(ctx, ledger.ID, backupdomain.StatusActive); err != nil {
		return nil, err
	}

	return &RestoreResult{
		MediaID:      asset.ID,
		RestoredFrom: source.ID,
		LedgerID:     ledger.ID,
		AudioURL:     location,
		SizeBytes:    int64(len(body)),
		Checksum:     source.Checksum,
	}, nil
}

// CreateAllBackups runs CreateBackups over every asset still waiting for a
// successful run.
func (s *Service) CreateAllBackups(ctx context.Context) (*BulkReport, error) {
	assets, err := s.media.ListByBackupStatus(ctx, []media.BackupStatus{media.BackupStatusPending, media.BackupStatusFailed})
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for _, asset := range assets {
		report.Processed++
		result, err := s.CreateBackups(ctx, asset.ID)
		if err != nil {
			report.Failed++
			report.Details = append(report.Details, BulkDetail{MediaID: asset.ID, Error: err.Error()})
			continue
		}
		if result.Replication == ReplicationFailed {
			report.Failed++
			report.Details = append(report.Details, BulkDetail{MediaID: asset.ID, Error: string(ReplicationFailed)})
			continue
		}
		report.Succeeded++
	}

	return report, nil
}

func (s *Service) VerifyAllBackups(ctx context.Context) (*BulkReport, error) {
	assets, err := s.media.ListWithBackups(ctx)
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for _, asset := range assets {
		report.Processed++
		if _, err := s.VerifyBackups(ctx, asset.ID); err != nil {
			report.Failed++
			report.Details = append(report.Details, BulkDetail{MediaID: asset.ID, Error: err.Error()})
			continue
		}
		report.Succeeded++
	}

	return report, nil
}

func (s *Service) RestoreAllBackups(ctx context.Context) (*BulkReport, error) {
	assets, err := s.media.ListWithBackups(ctx)
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for _, asset := range assets {
		report.Processed++
		if _, err := s.RestoreFromBackup(ctx, asset.ID); err != nil {
			report.Failed++
			report.Details = append(report.Details, BulkDetail{MediaID: asset.ID, Error: err.Error()})
			continue
		}
		report.Succeeded++
	}

	return report, nil
}

func objectKey(mediaID uuid.UUID, kind backupdomain.Kind, at time.Time) string {
	return fmt.Sprintf("backups/%s/%s-%d.mp3", mediaID, kind, at.UnixNano())
}
