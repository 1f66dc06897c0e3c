package handler

import (
	"context"

	"memowindow/internal/backup"
	invitedomain "memowindow/internal/domain/invite"
	"memowindow/internal/domain/media"
	"memowindow/internal/domain/user"
	"memowindow/internal/invite"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// MediaHandler interfaces
type MediaStore interface {
	Create(ctx context.Context, input media.CreateAssetInput) (*media.Asset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*media.Asset, error)
}

// BackupHandler interfaces
type MediaGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*media.Asset, error)
}

type BackupService interface {
	CreateBackups(ctx context.Context, mediaID uuid.UUID) (*backup.CreateResult, error)
	VerifyBackups(ctx context.Context, mediaID uuid.UUID) ([]backup.VerifyResult, error)
	RestoreFromBackup(ctx context.Context, mediaID uuid.UUID) (*backup.RestoreResult, error)
	CreateAllBackups(ctx context.Context) (*backup.BulkReport, error)
	VerifyAllBackups(ctx context.Context) (*backup.BulkReport, error)
	RestoreAllBackups(ctx context.Context) (*backup.BulkReport, error)
}

// InvitationHandler interfaces
type InviteService interface {
	Create(ctx context.Context, input invite.CreateInput) (*invitedomain.Invitation, error)
	ValidateForSubmission(ctx context.Context, token, submitterEmail string, scan invitedomain.ScanContext) (*invite.Validation, error)
	SubmitMemory(ctx context.Context, input invite.SubmitInput) (*invitedomain.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, submissionID, ownerID uuid.UUID, status invitedomain.SubmissionStatus) (*invitedomain.Submission, error)
	Close(ctx context.Context, invitationID, ownerID uuid.UUID) error
	Get(ctx context.Context, invitationID, ownerID uuid.UUID) (*invitedomain.Invitation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*invitedomain.Invitation, error)
	ListSubmissions(ctx context.Context, invitationID, ownerID uuid.UUID) ([]*invitedomain.Submission, error)
	Analytics(ctx context.Context, invitationID, ownerID uuid.UUID, days int) ([]*invitedomain.DailyAnalytic, error)
	Scans(ctx context.Context, invitationID, ownerID uuid.UUID, limit int) ([]*invitedomain.ScanEvent, error)
}
