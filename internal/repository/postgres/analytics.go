package postgres

import (
	"context"

	"memowindow/internal/domain/invite"

	"github.com/google/uuid"
)

type AnalyticsRepository struct {
	db *DB
}

func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Upsert replaces the day's rollup with freshly recomputed values.
func (r *AnalyticsRepository) Upsert(ctx context.Context, stat invite.DailyAnalytic) error {
	query := `
		INSERT INTO invitation_daily_analytics (invitation_id, stat_date, scans, unique_scans, submissions)
		VALUES ($1, $2::date, $3, $4, $5)
		ON CONFLICT (invitation_id, stat_date)
		DO UPDATE SET scans = EXCLUDED.scans, unique_scans = EXCLUDED.unique_scans, submissions = EXCLUDED.submissions
	`

	_, err := r.db.Pool.Exec(ctx, query, stat.InvitationID, stat.StatDate, stat.Scans, stat.UniqueScans, stat.Submissions)
	if err != nil {
		return errFailedUpsertAnalytics(err)
	}

	return nil
}

// ListRecent returns up to days of rollups, newest first.
func (r *AnalyticsRepository) ListRecent(ctx context.Context, invitationID uuid.UUID, days int) ([]*invite.DailyAnalytic, error) {
	query := `
		SELECT invitation_id, stat_date, scans, unique_scans, submissions
		FROM invitation_daily_analytics
		WHERE invitation_id = $1 AND stat_date >= CURRENT_DATE - $2::int
		ORDER BY stat_date DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, invitationID, days)
	if err != nil {
		return nil, errFailedListAnalytics(err)
	}
	defer rows.Close()

	var stats []*invite.DailyAnalytic
	for rows.Next() {
		stat := &invite.DailyAnalytic{}
		if err := rows.Scan(&stat.InvitationID, &stat.StatDate, &stat.Scans, &stat.UniqueScans, &stat.Submissions); err != nil {
			return nil, errFailedScanAnalytics(err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}
