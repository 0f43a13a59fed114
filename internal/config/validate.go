package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateConnectivity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case StoreDriverBolt, StoreDriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path must be set when store.driver is %q", c.Store.Driver)
		}
	case StoreDriverSQL:
		if c.Store.DriverName == "" {
			return errors.New("store.driver_name must be set when store.driver is \"sql\"")
		}
		if c.Store.DSN == "" {
			return errors.New("store.dsn must be set when store.driver is \"sql\"")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("store.driver must be one of bolt, sqlite, sql or memory, got %q", c.Store.Driver)
	}
	return nil
}

func (c *Config) validateUpload() error {
	switch c.Upload.Transport {
	case UploadTransportHTTP:
		if c.Upload.Endpoint != "" {
			u, err := url.Parse(c.Upload.Endpoint)
			if err != nil {
				return fmt.Errorf("upload.endpoint: %w", err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("upload.endpoint must be an http or https URL, got %q", c.Upload.Endpoint)
			}
		}
	case UploadTransportGRPC:
	default:
		return fmt.Errorf("upload.transport must be http or grpc, got %q", c.Upload.Transport)
	}
	if c.Upload.TimeoutSeconds < 0 {
		return errors.New("upload.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateConnectivity() error {
	if c.Connectivity.ProbeIntervalSeconds < 0 {
		return errors.New("connectivity.probe_interval_seconds must be positive")
	}
	if c.Connectivity.ProbeTimeoutSeconds < 0 {
		return errors.New("connectivity.probe_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
