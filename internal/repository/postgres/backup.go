package postgres

import (
	"context"
	"time"

	"memowindow/internal/domain/backup"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BackupRepository struct {
	db *DB
}

func NewBackupRepository(db *DB) *BackupRepository {
	return &BackupRepository{db: db}
}

const backupColumns = `id, media_id, kind, location, size_bytes, checksum, status, fail_count, created_at, verified_at`

func (r *BackupRepository) Create(ctx context.Context, input backup.CreateRecordInput) (*backup.Record, error) {
	query := `
		INSERT INTO media_backups (media_id, kind, location, size_bytes, checksum, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + backupColumns

	rec := &backup.Record{}
	err := r.db.Pool.QueryRow(ctx, query,
		input.MediaID,
		string(input.Kind),
		input.Location,
		input.SizeBytes,
		input.Checksum,
		string(input.Status),
	).Scan(
		&rec.ID,
		&rec.MediaID,
		&rec.Kind,
		&rec.Location,
		&rec.SizeBytes,
		&rec.Checksum,
		&rec.Status,
		&rec.FailCount,
		&rec.CreatedAt,
		&rec.VerifiedAt,
	)
	if err != nil {
		return nil, errFailedCreateBackup(err)
	}

	return rec, nil
}

func (r *BackupRepository) GetByID(ctx context.Context, id uuid.UUID) (*backup.Record, error) {
	query := `SELECT ` + backupColumns + ` FROM media_backups WHERE id = $1`

	rec := &backup.Record{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.MediaID,
		&rec.Kind,
		&rec.Location,
		&rec.SizeBytes,
		&rec.Checksum,
		&rec.Status,
		&rec.FailCount,
		&rec.CreatedAt,
		&rec.VerifiedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errBackupNotFound)
		}
		return nil, errFailedGetBackup(err)
	}

	return rec, nil
}

func (r *BackupRepository) ListByMedia(ctx context.Context, mediaID uuid.UUID) ([]*backup.Record, error) {
	query := `SELECT ` + backupColumns + ` FROM media_backups WHERE media_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, mediaID)
	if err != nil {
		return nil, errFailedListBackups(err)
	}
	defer rows.Close()

	return scanBackups(rows)
}

// LatestActiveByMedia returns the most recent active ledger row for an asset.
// Restore sources from this row.
func (r *BackupRepository) LatestActiveByMedia(ctx context.Context, mediaID uuid.UUID) (*backup.Record, error) {
	query := `
		SELECT ` + backupColumns + `
		FROM media_backups
		WHERE media_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	rec := &backup.Record{}
	err := r.db.Pool.QueryRow(ctx, query, mediaID, string(backup.StatusActive)).Scan(
		&rec.ID,
		&rec.MediaID,
		&rec.Kind,
		&rec.Location,
		&rec.SizeBytes,
		&rec.Checksum,
		&rec.Status,
		&rec.FailCount,
		&rec.CreatedAt,
		&rec.VerifiedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NoBackupFound(errBackupNotFound)
		}
		return nil, errFailedGetBackup(err)
	}

	return rec, nil
}

// MarkVerified records a successful probe: verified_at is stamped and the
// consecutive failure count resets.
func (r *BackupRepository) MarkVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	query := `UPDATE media_backups SET verified_at = $2, fail_count = 0 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, verifiedAt)
	if err != nil {
		return errFailedMarkVerified(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errBackupNotFound)
	}

	return nil
}

// RecordProbeFailure bumps fail_count and demotes the row to stale once the
// count reaches the threshold. Returns the new failure count.
func (r *BackupRepository) RecordProbeFailure(ctx context.Context, id uuid.UUID, staleThreshold int) (int, error) {
	query := `
		UPDATE media_backups
		SET fail_count = fail_count + 1,
		    status = CASE WHEN fail_count + 1 >= $2 THEN 'stale' ELSE status END
		WHERE id = $1
		RETURNING fail_count
	`

	var failCount int
	err := r.db.Pool.QueryRow(ctx, query, id, staleThreshold).Scan(&failCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.NotFound(errBackupNotFound)
		}
		return 0, errFailedRecordProbeFail(err)
	}

	return failCount, nil
}

func (r *BackupRepository) SetStatus(ctx context.Context, id uuid.UUID, status backup.Status) error {
	query := `UPDATE media_backups SET status = $2 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return errFailedSetBackupState(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errBackupNotFound)
	}

	return nil
}

func scanBackups(rows pgx.Rows) ([]*backup.Record, error) {
	var records []*backup.Record
	for rows.Next() {
		rec := &backup.Record{}
		if err := rows.Scan(&rec.ID, &rec.MediaID, &rec.Kind, &rec.Location, &rec.SizeBytes, &rec.Checksum, &rec.Status, &rec.FailCount, &rec.CreatedAt, &rec.VerifiedAt); err != nil {
			return nil, errFailedScanBackup(err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
