package postgres

import (
	"context"
	"time"

	"memowindow/internal/domain/invite"
	apperrors "memowindow/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubmissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, invitation_id, submitter_email, title, media_url, notes, status, created_at, approved_at`

func (r *SubmissionRepository) Create(ctx context.Context, input invite.CreateSubmissionInput) (*invite.Submission, error) {
	query := `
		INSERT INTO submissions (invitation_id, submitter_email, title, media_url, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + submissionColumns

	s := &invite.Submission{}
	err := r.db.Pool.QueryRow(ctx, query,
		input.InvitationID,
		input.SubmitterEmail,
		input.Title,
		input.MediaURL,
		input.Notes,
	).Scan(submissionFields(s)...)
	if err != nil {
		return nil, errFailedCreateSubmission(err)
	}

	return s, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*invite.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s := &invite.Submission{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(submissionFields(s)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errSubmissionNotFound)
		}
		return nil, errFailedGetSubmission(err)
	}

	return s, nil
}

func (r *SubmissionRepository) ListByInvitation(ctx context.Context, invitationID uuid.UUID) ([]*invite.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE invitation_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, invitationID)
	if err != nil {
		return nil, errFailedListSubmissions(err)
	}
	defer rows.Close()

	var submissions []*invite.Submission
	for rows.Next() {
		s := &invite.Submission{}
		if err := rows.Scan(submissionFields(s)...); err != nil {
			return nil, errFailedScanSubmission(err)
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

// CountByInvitation is the source of truth behind current_submissions.
func (r *SubmissionRepository) CountByInvitation(ctx context.Context, invitationID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE invitation_id = $1`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, invitationID).Scan(&count); err != nil {
		return 0, errFailedCountSubmissions(err)
	}

	return count, nil
}

func (r *SubmissionRepository) CountOnDate(ctx context.Context, invitationID uuid.UUID, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE invitation_id = $1 AND created_at::date = $2::date`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, invitationID, date).Scan(&count); err != nil {
		return 0, errFailedCountSubmissions(err)
	}

	return count, nil
}

func (r *SubmissionRepository) SetStatus(ctx context.Context, id uuid.UUID, status invite.SubmissionStatus, approvedAt *time.Time) error {
	query := `UPDATE submissions SET status = $2, approved_at = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, string(status), approvedAt)
	if err != nil {
		return errFailedUpdateSubmission(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errSubmissionNotFound)
	}

	return nil
}

func submissionFields(s *invite.Submission) []any {
	return []any{
		&s.ID,
		&s.InvitationID,
		&s.SubmitterEmail,
		&s.Title,
		&s.MediaURL,
		&s.Notes,
		&s.Status,
		&s.CreatedAt,
		&s.ApprovedAt,
	}
}
