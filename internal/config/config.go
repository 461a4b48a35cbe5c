package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
)

// Config holds settings shared by the dashboard-sync binaries.
type Config struct {
	// ServerAddress is the gRPC server address.
	ServerAddress string `yaml:"server_addr"`
	// StateFile is the path to the JSON file storing the timezone preference.
	StateFile string `yaml:"state_file"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written by the logger.
	LogLevel string `yaml:"log_level"`
	// DefaultTimezone is used when no preference is stored or the stored one
	// is invalid. Empty means the process local zone.
	DefaultTimezone calendar.Timezone `yaml:"default_timezone"`
	// MidnightGuard is added after midnight before the current day is recomputed.
	MidnightGuard time.Duration `yaml:"midnight_guard"`
	// Assets locates card images.
	Assets Assets `yaml:"assets"`
}

// Assets locates card images and the placeholder.
type Assets struct {
	// BaseURL is the root of the template image API.
	BaseURL string `yaml:"base_url"`
	// PlaceholderURL overrides the placeholder location derived from BaseURL.
	PlaceholderURL string `yaml:"placeholder_url"`
	// ProbeTimeout bounds one image load attempt.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// S3 switches image resolution to presigned object storage URLs when Bucket is set.
	S3 S3 `yaml:"s3"`
}

// S3 describes an S3-compatible bucket holding card images.
type S3 struct {
	// Bucket is the bucket name; empty disables S3.
	Bucket string `yaml:"bucket"`
	// Endpoint is an optional custom endpoint for S3-compatible stores.
	Endpoint string `yaml:"endpoint"`
	// Region is the signing region.
	Region string `yaml:"region"`
	// AccessKeyID is the static access key.
	AccessKeyID string `yaml:"access_key_id"`
	// SecretAccessKey is the static secret.
	SecretAccessKey string `yaml:"secret_access_key"`
	// Prefix is prepended to every object key.
	Prefix string `yaml:"prefix"`
	// PresignTTL is how long presigned URLs stay valid.
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

// Enabled reports whether S3 resolution is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "dashboard-sync-settings.yaml"

	// DefaultStateFilename is the default filename for the preference JSON.
	DefaultStateFilename = "dashboard-sync-state.json"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultProbeTimeout is the default bound on one image load attempt.
	DefaultProbeTimeout = 3 * time.Second

	// DefaultPresignTTL is the default validity of presigned image URLs.
	DefaultPresignTTL = 15 * time.Minute

	// DefaultS3Region is used for signing when no region is configured.
	DefaultS3Region = "us-east-1"

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errAssetsRequired is returned when neither a base URL nor a bucket is configured.
	errAssetsRequired = errors.New("assets base_url or s3 bucket must be provided")
	// errNegativeGuard is returned for a negative midnight guard.
	errNegativeGuard = errors.New("midnight_guard must not be negative")
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file may carry S3 credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults.
//
//nolint:cyclop // A flat list of field checks reads better than helpers.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if err := settings.DefaultTimezone.Validate(); err != nil {
		return fmt.Errorf("invalid default timezone: %w", err)
	}

	switch {
	case settings.MidnightGuard < 0:
		return errNegativeGuard
	case settings.MidnightGuard == 0:
		settings.MidnightGuard = calendar.DefaultMidnightGuard
	}

	return validateAssets(&settings.Assets)
}

// validateAssets checks image locations and fills their defaults.
func validateAssets(assets *Assets) error {
	if assets.ProbeTimeout <= 0 {
		assets.ProbeTimeout = DefaultProbeTimeout
	}

	if assets.S3.Enabled() {
		if assets.S3.Region == "" {
			assets.S3.Region = DefaultS3Region
		}

		if assets.S3.PresignTTL <= 0 {
			assets.S3.PresignTTL = DefaultPresignTTL
		}

		if assets.S3.Endpoint != "" {
			if _, err := url.ParseRequestURI(assets.S3.Endpoint); err != nil {
				return fmt.Errorf("invalid s3 endpoint: %w", err)
			}
		}
	} else if assets.BaseURL == "" {
		return errAssetsRequired
	}

	if assets.BaseURL != "" {
		if _, err := url.ParseRequestURI(assets.BaseURL); err != nil {
			return fmt.Errorf("invalid assets base URL: %w", err)
		}
	}

	if assets.PlaceholderURL != "" {
		if _, err := url.ParseRequestURI(assets.PlaceholderURL); err != nil {
			return fmt.Errorf("invalid placeholder URL: %w", err)
		}
	}

	return nil
}
