package postgres

import (
	"context"
	"time"

	"memowindow/internal/domain/invite"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvitationRepository struct {
	db *DB
}

func NewInvitationRepository(db *DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `id, owner_id, token, invited_email, title, message, max_submissions, current_submissions, allow_public, status, expires_at, qr_scans, unique_scans, last_scan_at, created_at`

func (r *InvitationRepository) Create(ctx context.Context, input invite.CreateInvitationInput) (*invite.Invitation, error) {
	query := `
		INSERT INTO invitations (owner_id, token, invited_email, title, message, max_submissions, allow_public, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + invitationColumns

	inv := &invite.Invitation{}
	err := r.db.Pool.QueryRow(ctx, query,
		input.OwnerID,
		input.Token,
		input.InvitedEmail,
		input.Title,
		input.Message,
		input.MaxSubmissions,
		input.AllowPublic,
		input.ExpiresAt,
	).Scan(invitationFields(inv)...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errInvitationTokenTaken)
		}
		return nil, errFailedCreateInvitation(err)
	}

	return inv, nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*invite.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`

	inv := &invite.Invitation{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(invitationFields(inv)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errInvitationNotFound)
		}
		return nil, errFailedGetInvitation(err)
	}

	return inv, nil
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*invite.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`

	inv := &invite.Invitation{}
	err := r.db.Pool.QueryRow(ctx, query, token).Scan(invitationFields(inv)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errInvitationNotFound)
		}
		return nil, errFailedGetInvitation(err)
	}

	return inv, nil
}

func (r *InvitationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*invite.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, errFailedListInvitations(err)
	}
	defer rows.Close()

	var invitations []*invite.Invitation
	for rows.Next() {
		inv := &invite.Invitation{}
		if err := rows.Scan(invitationFields(inv)...); err != nil {
			return nil, errFailedScanInvitation(err)
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

func (r *InvitationRepository) SetStatus(ctx context.Context, id uuid.UUID, status invite.InvitationStatus) error {
	query := `UPDATE invitations SET status = $2 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return errFailedUpdateInvitation(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errInvitationNotFound)
	}

	return nil
}

// SetSubmissionCount writes the recomputed submission counter.
func (r *InvitationRepository) SetSubmissionCount(ctx context.Context, id uuid.UUID, count int) error {
	query := `UPDATE invitations SET current_submissions = $2 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, count)
	if err != nil {
		return errFailedUpdateInvitation(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errInvitationNotFound)
	}

	return nil
}

// SetScanStats writes the recomputed scan counters and the latest scan time.
func (r *InvitationRepository) SetScanStats(ctx context.Context, id uuid.UUID, total, unique int, lastScanAt time.Time) error {
	query := `UPDATE invitations SET qr_scans = $2, unique_scans = $3, last_scan_at = $4 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, total, unique, lastScanAt)
	if err != nil {
		return errFailedUpdateInvitation(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errInvitationNotFound)
	}

	return nil
}

func invitationFields(inv *invite.Invitation) []any {
	return []any{
		&inv.ID,
		&inv.OwnerID,
		&inv.Token,
		&inv.InvitedEmail,
		&inv.Title,
		&inv.Message,
		&inv.MaxSubmissions,
		&inv.CurrentSubmissions,
		&inv.AllowPublic,
		&inv.Status,
		&inv.ExpiresAt,
		&inv.QRScans,
		&inv.UniqueScans,
		&inv.LastScanAt,
		&inv.CreatedAt,
	}
}
