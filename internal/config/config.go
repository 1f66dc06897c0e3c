package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envPrimaryBucket         = "PRIMARY_BUCKET"
	envMirrorBucket          = "MIRROR_BUCKET"
	envArchiveBucket         = "ARCHIVE_BUCKET"
	envBackupFetchTimeout    = "BACKUP_FETCH_TIMEOUT"
	envBackupProbeTimeout    = "BACKUP_PROBE_TIMEOUT"
	envBackupStaleThreshold  = "BACKUP_STALE_THRESHOLD"
	envMailerAPIKey          = "MAILER_API_KEY"
	envMailerFrom            = "MAILER_FROM"
	envMailerTimeout         = "MAILER_TIMEOUT"
	envInviteBaseURL         = "INVITE_BASE_URL"
	envAnalyticsDefaultDays  = "ANALYTICS_DEFAULT_DAYS"
	envScanListLimit         = "SCAN_LIST_LIMIT"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "memowindow"
	defaultDBUser             = "memowindow_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultJWTExpiry          = 60 * time.Minute
	defaultFetchTimeout       = 30 * time.Second
	defaultProbeTimeout       = 10 * time.Second
	defaultStaleThreshold     = 3
	defaultMailerTimeout      = 10 * time.Second
	defaultInviteBaseURL      = "https://memowindow.com/invite"
	defaultAnalyticsDays      = 30
	defaultScanListLimit      = 100
	minJWTSecretLength        = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2

	errPortRequiredFmt          = "PORT must be set"
	errDBPasswordRequiredFmt    = "DB_PASSWORD must be set"
	errRegionRequiredFmt        = "REGION must be set"
	errAWSAccessKeyRequiredFmt  = "AWS_ACCESS_KEY_ID must be set"
	errAWSSecretKeyRequiredFmt  = "AWS_SECRET_ACCESS_KEY must be set"
	errJWTSecretRequiredFmt     = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt    = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt   = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errBucketRequiredFmt        = "%s must be set"
	errStaleThresholdFmt        = "BACKUP_STALE_THRESHOLD must be positive"
	errInvalidConfigurationFmt  = "invalid configuration: %w"
	errRequiredEnvNotSetFmt     = "required environment variable %s is not set"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	JWT      JWTConfig
	Backup   BackupConfig
	Mailer   MailerConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

// BackupConfig controls the backup replication subsystem: where copies go,
// how long outbound transfers may take, and when a repeatedly unreachable
// copy is demoted to stale.
type BackupConfig struct {
	PrimaryBucket  string
	MirrorBucket   string
	ArchiveBucket  string
	FetchTimeout   time.Duration
	ProbeTimeout   time.Duration
	StaleThreshold int
}

type MailerConfig struct {
	APIKey  string
	From    string
	Timeout time.Duration
}

type AppConfig struct {
	InviteBaseURL        string
	AnalyticsDefaultDays int
	ScanListLimit        int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: requireEnv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		AWS: AWSConfig{
			Region:          requireEnv(envAWSRegion),
			AccessKeyID:     requireEnv(envAWSAccessKeyID),
			SecretAccessKey: requireEnv(envAWSSecretAccessKey),
		},
		JWT: JWTConfig{
			Secret:         requireEnv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Backup: BackupConfig{
			PrimaryBucket:  requireEnv(envPrimaryBucket),
			MirrorBucket:   requireEnv(envMirrorBucket),
			ArchiveBucket:  requireEnv(envArchiveBucket),
			FetchTimeout:   getDurationEnv(envBackupFetchTimeout, defaultFetchTimeout),
			ProbeTimeout:   getDurationEnv(envBackupProbeTimeout, defaultProbeTimeout),
			StaleThreshold: getIntEnv(envBackupStaleThreshold, defaultStaleThreshold),
		},
		Mailer: MailerConfig{
			APIKey:  getEnv(envMailerAPIKey, ""),
			From:    getEnv(envMailerFrom, ""),
			Timeout: getDurationEnv(envMailerTimeout, defaultMailerTimeout),
		},
		App: AppConfig{
			InviteBaseURL:        getEnv(envInviteBaseURL, defaultInviteBaseURL),
			AnalyticsDefaultDays: getIntEnv(envAnalyticsDefaultDays, defaultAnalyticsDays),
			ScanListLimit:        getIntEnv(envScanListLimit, defaultScanListLimit),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.AWS.Region == "" {
		return fmt.Errorf(errRegionRequiredFmt)
	}

	if c.AWS.AccessKeyID == "" {
		return fmt.Errorf(errAWSAccessKeyRequiredFmt)
	}

	if c.AWS.SecretAccessKey == "" {
		return fmt.Errorf(errAWSSecretKeyRequiredFmt)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	for name, bucket := range map[string]string{
		envPrimaryBucket: c.Backup.PrimaryBucket,
		envMirrorBucket:  c.Backup.MirrorBucket,
		envArchiveBucket: c.Backup.ArchiveBucket,
	} {
		if bucket == "" {
			return fmt.Errorf(errBucketRequiredFmt, name)
		}
	}

	if c.Backup.StaleThreshold <= 0 {
		return fmt.Errorf(errStaleThresholdFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// MigrateURL builds the pgx5:// URL the migration runner expects.
func (c *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf(errRequiredEnvNotSetFmt, key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
