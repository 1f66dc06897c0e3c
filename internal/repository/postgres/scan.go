package postgres

import (
	"context"
	"time"

	"memowindow/internal/domain/invite"

	"github.com/google/uuid"
)

type ScanEventRepository struct {
	db *DB
}

func NewScanEventRepository(db *DB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

func (r *ScanEventRepository) Create(ctx context.Context, invitationID uuid.UUID, scan invite.ScanContext) (*invite.ScanEvent, error) {
	query := `
		INSERT INTO scan_events (invitation_id, ip, user_agent, referer)
		VALUES ($1, $2, $3, $4)
		RETURNING id, invitation_id, ip, user_agent, referer, created_at
	`

	ev := &invite.ScanEvent{}
	err := r.db.Pool.QueryRow(ctx, query, invitationID, scan.IP, scan.UserAgent, scan.Referer).Scan(
		&ev.ID,
		&ev.InvitationID,
		&ev.IP,
		&ev.UserAgent,
		&ev.Referer,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, errFailedCreateScanEvent(err)
	}

	return ev, nil
}

// CountByInvitation returns total scans and scans from distinct IPs.
func (r *ScanEventRepository) CountByInvitation(ctx context.Context, invitationID uuid.UUID) (total, unique int, err error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT ip) FROM scan_events WHERE invitation_id = $1`

	if err := r.db.Pool.QueryRow(ctx, query, invitationID).Scan(&total, &unique); err != nil {
		return 0, 0, errFailedCountScans(err)
	}

	return total, unique, nil
}

func (r *ScanEventRepository) CountOnDate(ctx context.Context, invitationID uuid.UUID, date time.Time) (total, unique int, err error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT ip) FROM scan_events WHERE invitation_id = $1 AND created_at::date = $2::date`

	if err := r.db.Pool.QueryRow(ctx, query, invitationID, date).Scan(&total, &unique); err != nil {
		return 0, 0, errFailedCountScans(err)
	}

	return total, unique, nil
}

func (r *ScanEventRepository) ListByInvitation(ctx context.Context, invitationID uuid.UUID, limit int) ([]*invite.ScanEvent, error) {
	query := `
		SELECT id, invitation_id, ip, user_agent, referer, created_at
		FROM scan_events
		WHERE invitation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, invitationID, limit)
	if err != nil {
		return nil, errFailedListScans(err)
	}
	defer rows.Close()

	var events []*invite.ScanEvent
	for rows.Next() {
		ev := &invite.ScanEvent{}
		if err := rows.Scan(&ev.ID, &ev.InvitationID, &ev.IP, &ev.UserAgent, &ev.Referer, &ev.CreatedAt); err != nil {
			return nil, errFailedScanScanEvent(err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}
