package invite

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationStatusPending InvitationStatus = "pending"
	InvitationStatusClosed  InvitationStatus = "closed"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Invitation is one memory-collection invite link. Token is the bearer
// credential embedded in the public URL. CurrentSubmissions, QRScans,
// UniqueScans and LastScanAt are denormalized counters recomputed from the
// source tables on every event, never incremented in place.
type Invitation struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	Token              string
	InvitedEmail       string
	Title              string
	Message            string
	MaxSubmissions     *int
	CurrentSubmissions int
	AllowPublic        bool
	Status             InvitationStatus
	ExpiresAt          *time.Time
	QRScans            int
	UniqueScans        int
	LastScanAt         *time.Time
	CreatedAt          time.Time
}

// Expired reports whether the invitation's expiry is set and in the past.
// Expiry is layered on top of Status: a pending invitation can be expired.
func (i *Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

type CreateInvitationInput struct {
	OwnerID        uuid.UUID
	Token          string
	InvitedEmail   string
	Title          string
	Message        string
	MaxSubmissions *int
	AllowPublic    bool
	ExpiresAt      *time.Time
}

// Submission is one memory submitted against an invitation. ApprovedAt is
// set only on approval; approved and rejected are terminal.
type Submission struct {
	ID             uuid.UUID
	InvitationID   uuid.UUID
	SubmitterEmail string
	Title          string
	MediaURL       string
	Notes          string
	Status         SubmissionStatus
	CreatedAt      time.Time
	ApprovedAt     *time.Time
}

type CreateSubmissionInput struct {
	InvitationID   uuid.UUID
	SubmitterEmail string
	Title          string
	MediaURL       string
	Notes          string
}

// ScanEvent is one access attempt against an invitation token, append-only.
type ScanEvent struct {
	ID           int64
	InvitationID uuid.UUID
	IP           string
	UserAgent    string
	Referer      string
	CreatedAt    time.Time
}

// ScanContext carries the requester attributes recorded with each scan.
type ScanContext struct {
	IP        string
	UserAgent string
	Referer   string
}

// DailyAnalytic is the per-invitation, per-day rollup, upserted and always
// recomputed from scan_events and submissions.
type DailyAnalytic struct {
	InvitationID uuid.UUID
	StatDate     time.Time
	Scans        int
	UniqueScans  int
	Submissions  int
}
