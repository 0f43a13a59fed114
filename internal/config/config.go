package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvironmentVariable is the name of the environment variable that overrides
// the default configuration file location.
const EnvironmentVariable = "SYNCQUEUE_CONFIG"

// Store drivers.
const (
	StoreDriverBolt   = "bolt"
	StoreDriverSQLite = "sqlite"
	StoreDriverSQL    = "sql"
	StoreDriverMemory = "memory"
)

// Upload transports.
const (
	UploadTransportHTTP = "http"
	UploadTransportGRPC = "grpc"
)

// Store describes where the queue is persisted.
type Store struct {
	// Driver is one of "bolt", "sqlite", "sql" or "memory".
	Driver string `toml:"driver"`

	// Path is the database file used by the "bolt" and "sqlite" drivers.
	Path string `toml:"path"`

	// DriverName and DSN are passed to sql.Open() by the "sql" driver. The
	// named database/sql driver must be linked into the binary.
	DriverName string `toml:"driver_name"`
	DSN        string `toml:"dsn"`

	Namespace string `toml:"namespace"`
}

// Queue contains settings for the queue manager.
type Queue struct {
	StorageKey string `toml:"storage_key"`
	DeviceID   string `toml:"device_id"`
}

// Upload describes the remote system that operations are uploaded to.
type Upload struct {
	// Transport is either "http" or "grpc".
	Transport string `toml:"transport"`

	// Endpoint is a URL for the "http" transport, or a gRPC target for the
	// "grpc" transport.
	Endpoint string `toml:"endpoint"`

	// Token is sent as a bearer token when it is non-empty.
	Token string `toml:"token"`

	// Headers are extra HTTP headers sent with each upload.
	Headers map[string]string `toml:"headers"`

	// Insecure disables transport security for the "grpc" transport.
	Insecure bool `toml:"insecure"`

	// TimeoutSeconds limits each upload. Zero disables the limit.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Connectivity contains settings for the reachability prober.
type Connectivity struct {
	// ProbeAddress is the "host:port" address that is dialed to decide whether
	// the device is online. If it is empty it is derived from Upload.Endpoint.
	ProbeAddress         string `toml:"probe_address"`
	ProbeIntervalSeconds int    `toml:"probe_interval_seconds"`
	ProbeTimeoutSeconds  int    `toml:"probe_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the configuration for the syncqueue command.
type Config struct {
	Store        Store        `toml:"store"`
	Queue        Queue        `toml:"queue"`
	Upload       Upload       `toml:"upload"`
	Connectivity Connectivity `toml:"connectivity"`
	Logging      Logging      `toml:"logging"`
}

// UploadTimeout returns the per-upload timeout as a duration.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.Upload.TimeoutSeconds) * time.Second
}

// ProbeInterval returns the delay between connectivity probes.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.Connectivity.ProbeIntervalSeconds) * time.Second
}

// ProbeTimeout returns the time allowed for a single connectivity probe.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Connectivity.ProbeTimeoutSeconds) * time.Second
}

// DefaultConfigPath returns the absolute path of the default configuration
// file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses and validates a configuration file.
//
// If path is empty the SYNCQUEUE_CONFIG environment variable is consulted,
// followed by DefaultConfigPath(). A missing file yields the defaults. It
// returns the resolved path and whether the file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Encode writes c to path in TOML form, creating parent directories as needed.
func Encode(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// ResolvePath returns the configuration file that Load(path) would read, and
// whether it exists.
func ResolvePath(path string) (string, bool, error) {
	return resolveConfigPath(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvironmentVariable))
	}
	if path == "" {
		path = defaultConfigPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}

	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}

	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
