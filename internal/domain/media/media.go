package media

import (
	"time"

	"github.com/google/uuid"
)

// BackupStatus is the denormalized replication state carried on the asset
// itself. "completed" means every configured destination holds a copy;
// "partial" means at least one but not all destinations succeeded.
type BackupStatus string

const (
	BackupStatusPending   BackupStatus = "pending"
	BackupStatusPartial   BackupStatus = "partial"
	BackupStatusCompleted BackupStatus = "completed"
	BackupStatusFailed    BackupStatus = "failed"
	BackupStatusRestored  BackupStatus = "restored"
)

// Asset is an uploaded voice recording tracked for waveform artwork.
// AudioURL points at the primary storage location; the backup ledger
// references assets by ID.
type Asset struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	AudioURL        string
	SizeBytes       int64
	BackupStatus    BackupStatus
	LastBackupCheck *time.Time
	CreatedAt       time.Time
}

type CreateAssetInput struct {
	OwnerID  uuid.UUID
	Title    string
	AudioURL string
}
