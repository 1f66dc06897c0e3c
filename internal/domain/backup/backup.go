package backup

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the storage tier a copy lives in. "restored" marks
// ledger entries created when a backup is copied back to primary storage,
// so the restoration itself stays recoverable.
type Kind string

const (
	KindMirror   Kind = "mirror"
	KindArchive  Kind = "archive"
	KindRestored Kind = "restored"
)

// Status is the soft lifecycle flag on a ledger row. "pending" exists only
// during a restore: the row is inserted before the storage write and flipped
// to active once the write is confirmed, so a crash leaves a detectable
// pending row rather than a silent mismatch.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusStale   Status = "stale"
)

// Record is one row of the backup ledger: a single redundant copy of a
// media asset. VerifiedAt is set only when a reachability probe succeeds
// and is never cleared; FailCount counts consecutive failed probes.
type Record struct {
	ID         uuid.UUID
	MediaID    uuid.UUID
	Kind       Kind
	Location   string
	SizeBytes  int64
	Checksum   string
	Status     Status
	FailCount  int
	CreatedAt  time.Time
	VerifiedAt *time.Time
}

type CreateRecordInput struct {
	MediaID   uuid.UUID
	Kind      Kind
	Location  string
	SizeBytes int64
	Checksum  string
	Status    Status
}
