package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound         = "user not found"
	errAssetNotFound        = "media asset not found"
	errBackupNotFound       = "backup record not found"
	errInvitationNotFound   = "invitation not found"
	errInvitationTokenTaken = "invitation token already exists"
	errSubmissionNotFound   = "submission not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"

	errFailedCreateAssetFmt       = "failed to create media asset: %w"
	errFailedGetAssetFmt          = "failed to get media asset: %w"
	errFailedListAssetsFmt        = "failed to list media assets: %w"
	errFailedScanAssetFmt         = "failed to scan media asset: %w"
	errFailedUpdateAssetFmt       = "failed to update media asset: %w"
	errFailedSetBackupStatusFmt   = "failed to set backup status: %w"

	errFailedCreateBackupFmt      = "failed to create backup record: %w"
	errFailedGetBackupFmt         = "failed to get backup record: %w"
	errFailedListBackupsFmt       = "failed to list backup records: %w"
	errFailedScanBackupFmt        = "failed to scan backup record: %w"
	errFailedMarkVerifiedFmt      = "failed to mark backup verified: %w"
	errFailedRecordProbeFailFmt   = "failed to record probe failure: %w"
	errFailedSetBackupStateFmt    = "failed to set backup record status: %w"

	errFailedCreateInvitationFmt  = "failed to create invitation: %w"
	errFailedGetInvitationFmt     = "failed to get invitation: %w"
	errFailedListInvitationsFmt   = "failed to list invitations: %w"
	errFailedScanInvitationFmt    = "failed to scan invitation: %w"
	errFailedUpdateInvitationFmt  = "failed to update invitation: %w"

	errFailedCreateSubmissionFmt  = "failed to create submission: %w"
	errFailedGetSubmissionFmt     = "failed to get submission: %w"
	errFailedListSubmissionsFmt   = "failed to list submissions: %w"
	errFailedScanSubmissionFmt    = "failed to scan submission: %w"
	errFailedCountSubmissionsFmt  = "failed to count submissions: %w"
	errFailedUpdateSubmissionFmt  = "failed to update submission: %w"

	errFailedCreateScanEventFmt   = "failed to create scan event: %w"
	errFailedCountScansFmt        = "failed to count scans: %w"
	errFailedListScansFmt         = "failed to list scan events: %w"
	errFailedScanScanEventFmt     = "failed to scan scan event: %w"

	errFailedUpsertAnalyticsFmt   = "failed to upsert daily analytics: %w"
	errFailedListAnalyticsFmt     = "failed to list daily analytics: %w"
	errFailedScanAnalyticsFmt     = "failed to scan daily analytics: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedCreateUser = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedGetUser    = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }

	errFailedCreateAsset     = func(err error) error { return fmt.Errorf(errFailedCreateAssetFmt, err) }
	errFailedGetAsset        = func(err error) error { return fmt.Errorf(errFailedGetAssetFmt, err) }
	errFailedListAssets      = func(err error) error { return fmt.Errorf(errFailedListAssetsFmt, err) }
	errFailedScanAsset       = func(err error) error { return fmt.Errorf(errFailedScanAssetFmt, err) }
	errFailedUpdateAsset     = func(err error) error { return fmt.Errorf(errFailedUpdateAssetFmt, err) }
	errFailedSetBackupStatus = func(err error) error { return fmt.Errorf(errFailedSetBackupStatusFmt, err) }

	errFailedCreateBackup    = func(err error) error { return fmt.Errorf(errFailedCreateBackupFmt, err) }
	errFailedGetBackup       = func(err error) error { return fmt.Errorf(errFailedGetBackupFmt, err) }
	errFailedListBackups     = func(err error) error { return fmt.Errorf(errFailedListBackupsFmt, err) }
	errFailedScanBackup      = func(err error) error { return fmt.Errorf(errFailedScanBackupFmt, err) }
	errFailedMarkVerified    = func(err error) error { return fmt.Errorf(errFailedMarkVerifiedFmt, err) }
	errFailedRecordProbeFail = func(err error) error { return fmt.Errorf(errFailedRecordProbeFailFmt, err) }
	errFailedSetBackupState  = func(err error) error { return fmt.Errorf(errFailedSetBackupStateFmt, err) }

	errFailedCreateInvitation = func(err error) error { return fmt.Errorf(errFailedCreateInvitationFmt, err) }
	errFailedGetInvitation    = func(err error) error { return fmt.Errorf(errFailedGetInvitationFmt, err) }
	errFailedListInvitations  = func(err error) error { return fmt.Errorf(errFailedListInvitationsFmt, err) }
	errFailedScanInvitation   = func(err error) error { return fmt.Errorf(errFailedScanInvitationFmt, err) }
	errFailedUpdateInvitation = func(err error) error { return fmt.Errorf(errFailedUpdateInvitationFmt, err) }

	errFailedCreateSubmission = func(err error) error { return fmt.Errorf(errFailedCreateSubmissionFmt, err) }
	errFailedGetSubmission    = func(err error) error { return fmt.Errorf(errFailedGetSubmissionFmt, err) }
	errFailedListSubmissions  = func(err error) error { return fmt.Errorf(errFailedListSubmissionsFmt, err) }
	errFailedScanSubmission   = func(err error) error { return fmt.Errorf(errFailedScanSubmissionFmt, err) }
	errFailedCountSubmissions = func(err error) error { return fmt.Errorf(errFailedCountSubmissionsFmt, err) }
	errFailedUpdateSubmission = func(err error) error { return fmt.Errorf(errFailedUpdateSubmissionFmt, err) }

	errFailedCreateScanEvent = func(err error) error { return fmt.Errorf(errFailedCreateScanEventFmt, err) }
	errFailedCountScans      = func(err error) error { return fmt.Errorf(errFailedCountScansFmt, err) }
	errFailedListScans       = func(err error) error { return fmt.Errorf(errFailedListScansFmt, err) }
	errFailedScanScanEvent   = func(err error) error { return fmt.Errorf(errFailedScanScanEventFmt, err) }

	errFailedUpsertAnalytics = func(err error) error { return fmt.Errorf(errFailedUpsertAnalyticsFmt, err) }
	errFailedListAnalytics   = func(err error) error { return fmt.Errorf(errFailedListAnalyticsFmt, err) }
	errFailedScanAnalytics   = func(err error) error { return fmt.Errorf(errFailedScanAnalyticsFmt, err) }
)
