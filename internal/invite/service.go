// Package invite tracks memory-collection invitations: token-gated
// submissions from invited guests, scan analytics on the public link, and
// owner-side moderation of what comes in.
package invite

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"memowindow/internal/config"
	invitedomain "memowindow/internal/domain/invite"
	apperrors "memowindow/pkg/errors"
	"memowindow/pkg/token"

	"github.com/google/uuid"
)

// Validation reasons rendered to the public submission page. These are
// outcomes, not errors: an invalid token is a normal request.
const (
	ReasonInvalidOrExpired = "invalid or expired"
	ReasonClosed           = "no longer accepting"
	ReasonExpired          = "expired"
	ReasonCapReached       = "maximum submissions reached"
	ReasonEmailMismatch    = "email must match"
)

const (
	msgAccessDenied            = "access denied"
	msgInvitationClosed        = "invitation is not accepting changes"
	msgSubmissionResolved      = "submission already resolved"
	logFailedSendInvitationFmt = "failed to send invitation email to %s: %v"
)

type Validation struct {
	Valid      bool
	Reason     string
	Invitation *invitedomain.Invitation
}

type CreateInput struct {
	OwnerID        uuid.UUID
	InvitedEmail   string
	Title          string
	Message        string
	MaxSubmissions *int
	AllowPublic    bool
	ExpiresAt      *time.Time
}

type SubmitInput struct {
	Token          string
	SubmitterEmail string
	Title          string
	MediaURL       string
	Notes          string
}

type Service struct {
	invitations   InvitationStore
	submissions   SubmissionStore
	scans         ScanStore
	analytics     AnalyticsStore
	mailer        Mailer
	cfg           *config.AppConfig
	generateToken func() (string, error)
	now           func() time.Time
}

func NewService(invitations InvitationStore, submissions SubmissionStore, scans ScanStore, analytics AnalyticsStore, m Mailer, cfg *config.AppConfig) *Service {
	return &Service{
		invitations:   invitations,
		submissions:   submissions,
		scans:         scans,
		analytics:     analytics,
		mailer:        m,
		cfg:           cfg,
		generateToken: token.GenerateInviteToken,
		now:           time.Now,
	}
}

// Create mints a new invitation with a fresh random token. When an invited
// email is set the invitation email is sent best-effort: a mail failure is
// logged and the invitation still stands.
func (s *Service) Create(ctx context.Context, input CreateInput) (*invitedomain.Invitation, error) {
	tok, err := s.generateToken()
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.Create(ctx, invitedomain.CreateInvitationInput{
		OwnerID:        input.OwnerID,
		Token:          tok,
		InvitedEmail:   input.InvitedEmail,
		Title:          input.Title,
		Message:        input.Message,
		MaxSubmissions: input.MaxSubmissions,
		AllowPublic:    input.AllowPublic,
		ExpiresAt:      input.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	if inv.InvitedEmail != "" {
		inviteURL := fmt.Sprintf("%s/%s", s.cfg.InviteBaseURL, inv.Token)
		if mailErr := s.mailer.SendInvitation(ctx, inv.InvitedEmail, inv.Title, inv.Message, inviteURL); mailErr != nil {
			log.Printf(logFailedSendInvitationFmt, inv.InvitedEmail, mailErr)
		}
	}

	return inv, nil
}

// ValidateForSubmission runs the ordered eligibility checks for a public
// token; the first failing check wins. Any token that resolves to a row
// records a scan event and refreshes the denormalized scan counters, even
// when a later check fails, so analytics reflect every access attempt.
func (s *Service) ValidateForSubmission(ctx context.Context, tok, submitterEmail string, scan invitedomain.ScanContext) (*Validation, error) {
	inv, err := s.invitations.GetByToken(ctx, tok)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &Validation{Reason: ReasonInvalidOrExpired}, nil
		}
		return nil, err
	}

	if err := s.recordScan(ctx, inv, scan); err != nil {
		return nil, err
	}

	if reason := s.eligibility(inv, submitterEmail); reason != "" {
		return &Validation{Reason: reason, Invitation: inv}, nil
	}

	return &Validation{Valid: true, Invitation: inv}, nil
}

// eligibility returns the first failing check's reason, or "" when the
// invitation can accept a submission. Closed is checked before expiry so a
// closed invitation always reads as closed no matter its expiry or cap.
func (s *Service) eligibility(inv *invitedomain.Invitation, submitterEmail string) string {
	if inv.Status == invitedomain.InvitationStatusClosed {
		return ReasonClosed
	}
	if inv.Expired(s.now()) {
		return ReasonExpired
	}
	if inv.MaxSubmissions != nil && inv.CurrentSubmissions >= *inv.MaxSubmissions {
		return ReasonCapReached
	}
	if !inv.AllowPublic && submitterEmail != "" && !strings.EqualFold(submitterEmail, inv.InvitedEmail) {
		return ReasonEmailMismatch
	}
	return ""
}

// SubmitMemory re-runs the eligibility checks at write time with a fresh
// recount, inserts the submission as pending, and recomputes the cached
// counters from source tables.
func (s *Service) SubmitMemory(ctx context.Context, input SubmitInput) (*invitedomain.Submission, error) {
	inv, err := s.invitations.GetByToken(ctx, input.Token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation(ReasonInvalidOrExpired)
		}
		return nil, err
	}

	// re-count rather than trusting the cached column
	count, err := s.submissions.CountByInvitation(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.CurrentSubmissions = count

	if reason := s.eligibility(inv, input.SubmitterEmail); reason != "" {
		return nil, apperrors.Validation(reason)
	}

	sub, err := s.submissions.Create(ctx, invitedomain.CreateSubmissionInput{
		InvitationID:   inv.ID,
		SubmitterEmail: input.SubmitterEmail,
		Title:          input.Title,
		MediaURL:       input.MediaURL,
		Notes:          input.Notes,
	})
	if err != nil {
		return nil, err
	}

	count, err = s.submissions.CountByInvitation(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if err := s.invitations.SetSubmissionCount(ctx, inv.ID, count); err != nil {
		return nil, err
	}

	if err := s.upsertDailyAnalytics(ctx, inv.ID); err != nil {
		return nil, err
	}

	return sub, nil
}

// UpdateSubmissionStatus approves or rejects a pending submission. Both
// outcomes are terminal; only approval stamps approved_at.
func (s *Service) UpdateSubmissionStatus(ctx context.Context, submissionID, ownerID uuid.UUID, status invitedomain.SubmissionStatus) (*invitedomain.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.GetByID(ctx, sub.InvitationID)
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != ownerID {
		return nil, apperrors.Forbidden(msgAccessDenied)
	}

	if sub.Status != invitedomain.SubmissionStatusPending {
		return nil, apperrors.Conflict(msgSubmissionResolved)
	}

	var approvedAt *time.Time
	if status == invitedomain.SubmissionStatusApproved {
		now := s.now()
		approvedAt = &now
	}

	if err := s.submissions.SetStatus(ctx, sub.ID, status, approvedAt); err != nil {
		return nil, err
	}

	sub.Status = status
	sub.ApprovedAt = approvedAt
	return sub, nil
}

// Close transitions a pending invitation to closed. There is no way back.
func (s *Service) Close(ctx context.Context, invitationID, ownerID uuid.UUID) error {
	inv, err := s.ownedInvitation(ctx, invitationID, ownerID)
	if err != nil {
		return err
	}
	if inv.Status == invitedomain.InvitationStatusClosed {
		return apperrors.Conflict(msgInvitationClosed)
	}

	return s.invitations.SetStatus(ctx, inv.ID, invitedomain.InvitationStatusClosed)
}

func (s *Service) Get(ctx context.Context, invitationID, ownerID uuid.UUID) (*invitedomain.Invitation, error) {
	return s.ownedInvitation(ctx, invitationID, ownerID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*invitedomain.Invitation, error) {
	return s.invitations.ListByOwner(ctx, ownerID)
}

func (s *Service) ListSubmissions(ctx context.Context, invitationID, ownerID uuid.UUID) ([]*invitedomain.Submission, error) {
	if _, err := s.ownedInvitation(ctx, invitationID, ownerID); err != nil {
		return nil, err
	}
	return s.submissions.ListByInvitation(ctx, invitationID)
}

func (s *Service) Analytics(ctx context.Context, invitationID, ownerID uuid.UUID, days int) ([]*invitedomain.DailyAnalytic, error) {
	if _, err := s.ownedInvitation(ctx, invitationID, ownerID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = s.cfg.AnalyticsDefaultDays
	}
	return s.analytics.ListRecent(ctx, invitationID, days)
}

func (s *Service) Scans(ctx context.Context, invitationID, ownerID uuid.UUID, limit int) ([]*invitedomain.ScanEvent, error) {
	if _, err := s.ownedInvitation(ctx, invitationID, ownerID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.ScanListLimit {
		limit = s.cfg.ScanListLimit
	}
	return s.scans.ListByInvitation(ctx, invitationID, limit)
}

func (s *Service) ownedInvitation(ctx context.Context, invitationID, ownerID uuid.UUID) (*invitedomain.Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != ownerID {
		return nil, apperrors.Forbidden(msgAccessDenied)
	}
	return inv, nil
}

// recordScan appends the scan event and rewrites every scan counter from
// the source tables. Counters are recomputed, never incremented in place.
func (s *Service) recordScan(ctx context.Context, inv *invitedomain.Invitation, scan invitedomain.ScanContext) error {
	if _, err := s.scans.Create(ctx, inv.ID, scan); err != nil {
		return err
	}

	total, unique, err := s.scans.CountByInvitation(ctx, inv.ID)
	if err != nil {
		return err
	}
	if err := s.invitations.SetScanStats(ctx, inv.ID, total, unique, s.now()); err != nil {
		return err
	}
	inv.QRScans = total
	inv.UniqueScans = unique

	return s.upsertDailyAnalytics(ctx, inv.ID)
}

// upsertDailyAnalytics rebuilds today's rollup row from COUNT queries.
func (s *Service) upsertDailyAnalytics(ctx context.Context, invitationID uuid.UUID) error {
	today := s.now()

	scansTotal, scansUnique, err := s.scans.CountOnDate(ctx, invitationID, today)
	if err != nil {
		return err
	}
	subs, err := s.submissions.CountOnDate(ctx, invitationID, today)
	if err != nil {
		return err
	}

	return s.analytics.Upsert(ctx, invitedomain.DailyAnalytic{
		InvitationID: invitationID,
		StatDate:     today,
		Scans:        scansTotal,
		UniqueScans:  scansUnique,
		Submissions:  subs,
	})
}
