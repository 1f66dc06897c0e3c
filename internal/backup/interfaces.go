package backup

import (
	"context"
	"time"

	backupdomain "memowindow/internal/domain/backup"
	"memowindow/internal/domain/media"

	"github.com/google/uuid"
)

type MediaStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*media.Asset, error)
	ListByBackupStatus(ctx context.Context, statuses []media.BackupStatus) ([]*media.Asset, error)
	ListWithBackups(ctx context.Context) ([]*media.Asset, error)
	SetBackupStatus(ctx context.Context, id uuid.UUID, status media.BackupStatus, checkedAt time.Time) error
	SetPrimaryLocation(ctx context.Context, id uuid.UUID, audioURL string, sizeBytes int64) error
}

type BackupStore interface {
	Create(ctx context.Context, input backupdomain.CreateRecordInput) (*backupdomain.Record, error)
	ListByMedia(ctx context.Context, mediaID uuid.UUID) ([]*backupdomain.Record, error)
	LatestActiveByMedia(ctx context.Context, mediaID uuid.UUID) (*backupdomain.Record, error)
	MarkVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
	RecordProbeFailure(ctx context.Context, id uuid.UUID, staleThreshold int) (int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status backupdomain.Status) error
}

type ObjectStorage interface {
	Upload(ctx context.Context, bucketName, objectKey string, body []byte, contentType string) (string, error)
	ObjectURL(bucketName, objectKey string) string
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Prober interface {
	Probe(ctx context.Context, url string) error
}
