package postgres

import (
	"context"
	"time"

	"memowindow/internal/domain/media"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MediaRepository struct {
	db *DB
}

func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db}
}

const assetColumns = `id, owner_id, title, audio_url, size_bytes, backup_status, last_backup_check, created_at`

func (r *MediaRepository) Create(ctx context.Context, input media.CreateAssetInput) (*media.Asset, error) {
	query := `
		INSERT INTO media_assets (owner_id, title, audio_url)
		VALUES ($1, $2, $3)
		RETURNING ` + assetColumns

	a := &media.Asset{}
	err := r.db.Pool.QueryRow(ctx, query, input.OwnerID, input.Title, input.AudioURL).Scan(
		&a.ID,
		&a.OwnerID,
		&a.Title,
		&a.AudioURL,
		&a.SizeBytes,
		&a.BackupStatus,
		&a.LastBackupCheck,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, errFailedCreateAsset(err)
	}

	return a, nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*media.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_assets WHERE id = $1`

	a := &media.Asset{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.OwnerID,
		&a.Title,
		&a.AudioURL,
		&a.SizeBytes,
		&a.BackupStatus,
		&a.LastBackupCheck,
		&a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAssetNotFound)
		}
		return nil, errFailedGetAsset(err)
	}

	return a, nil
}

// ListByBackupStatus returns assets whose denormalized backup status is one
// of the given values, oldest first so bulk runs pick up stragglers in
// submission order.
func (r *MediaRepository) ListByBackupStatus(ctx context.Context, statuses []media.BackupStatus) ([]*media.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_assets WHERE backup_status = ANY($1) ORDER BY created_at ASC`

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	rows, err := r.db.Pool.Query(ctx, query, values)
	if err != nil {
		return nil, errFailedListAssets(err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// ListWithBackups returns assets that have at least one ledger row.
func (r *MediaRepository) ListWithBackups(ctx context.Context) ([]*media.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM media_assets
		WHERE EXISTS (SELECT 1 FROM media_backups WHERE media_backups.media_id = media_assets.id)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListAssets(err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

func (r *MediaRepository) SetBackupStatus(ctx context.Context, id uuid.UUID, status media.BackupStatus, checkedAt time.Time) error {
	query := `UPDATE media_assets SET backup_status = $2, last_backup_check = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, string(status), checkedAt)
	if err != nil {
		return errFailedSetBackupStatus(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAssetNotFound)
	}

	return nil
}

// SetPrimaryLocation repoints the asset at a freshly restored copy.
func (r *MediaRepository) SetPrimaryLocation(ctx context.Context, id uuid.UUID, audioURL string, sizeBytes int64) error {
	query := `UPDATE media_assets SET audio_url = $2, size_bytes = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, audioURL, sizeBytes)
	if err != nil {
		return errFailedUpdateAsset(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAssetNotFound)
	}

	return nil
}

func scanAssets(rows pgx.Rows) ([]*media.Asset, error) {
	var assets []*media.Asset
	for rows.Next() {
		a := &media.Asset{}
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Title, &a.AudioURL, &a.SizeBytes, &a.BackupStatus, &a.LastBackupCheck, &a.CreatedAt); err != nil {
			return nil, errFailedScanAsset(err)
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}
