package invite

import (
	"context"
	"time"

	invitedomain "memowindow/internal/domain/invite"

	"github.com/google/uuid"
)

type InvitationStore interface {
	Create(ctx context.Context, input invitedomain.CreateInvitationInput) (*invitedomain.Invitation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*invitedomain.Invitation, error)
	GetByToken(ctx context.Context, token string) (*invitedomain.Invitation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*invitedomain.Invitation, error)
	SetStatus(ctx context.Context, id uuid.UUID, status invitedomain.InvitationStatus) error
	SetSubmissionCount(ctx context.Context, id uuid.UUID, count int) error
	SetScanStats(ctx context.Context, id uuid.UUID, total, unique int, lastScanAt time.Time) error
}

type SubmissionStore interface {
	Create(ctx context.Context, input invitedomain.CreateSubmissionInput) (*invitedomain.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*invitedomain.Submission, error)
	ListByInvitation(ctx context.Context, invitationID uuid.UUID) ([]*invitedomain.Submission, error)
	CountByInvitation(ctx context.Context, invitationID uuid.UUID) (int, error)
	CountOnDate(ctx context.Context, invitationID uuid.UUID, date time.Time) (int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status invitedomain.SubmissionStatus, approvedAt *time.Time) error
}

type ScanStore interface {
	Create(ctx context.Context, invitationID uuid.UUID, scan invitedomain.ScanContext) (*invitedomain.ScanEvent, error)
	CountByInvitation(ctx context.Context, invitationID uuid.UUID) (total, unique int, err error)
	CountOnDate(ctx context.Context, invitationID uuid.UUID, date time.Time) (total, unique int, err error)
	ListByInvitation(ctx context.Context, invitationID uuid.UUID, limit int) ([]*invitedomain.ScanEvent, error)
}

type AnalyticsStore interface {
	Upsert(ctx context.Context, stat invitedomain.DailyAnalytic) error
	ListRecent(ctx context.Context, invitationID uuid.UUID, days int) ([]*invitedomain.DailyAnalytic, error)
}

type Mailer interface {
	SendInvitation(ctx context.Context, toEmail, title, message, inviteURL string) error
}
