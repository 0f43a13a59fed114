package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeUpload()
	c.normalizeConnectivity()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = defaultStoreDriver
	}

	c.Store.Namespace = strings.TrimSpace(c.Store.Namespace)
	if c.Store.Namespace == "" {
		c.Store.Namespace = defaultStoreNamespace
	}

	switch c.Store.Driver {
	case StoreDriverBolt, StoreDriverSQLite:
		var err error
		if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
			return fmt.Errorf("store.path: %w", err)
		}
	case StoreDriverSQL:
		c.Store.DriverName = strings.TrimSpace(c.Store.DriverName)
		c.Store.DSN = strings.TrimSpace(c.Store.DSN)
	}

	return nil
}

func (c *Config) normalizeUpload() {
	c.Upload.Transport = strings.ToLower(strings.TrimSpace(c.Upload.Transport))
	if c.Upload.Transport == "" {
		c.Upload.Transport = defaultUploadTransport
	}
	c.Upload.Endpoint = strings.TrimSpace(c.Upload.Endpoint)
	c.Upload.Token = strings.TrimSpace(c.Upload.Token)

	c.Queue.StorageKey = strings.TrimSpace(c.Queue.StorageKey)
	if c.Queue.StorageKey == "" {
		c.Queue.StorageKey = defaultStorageKey
	}
	c.Queue.DeviceID = strings.TrimSpace(c.Queue.DeviceID)
}

func (c *Config) normalizeConnectivity() {
	c.Connectivity.ProbeAddress = strings.TrimSpace(c.Connectivity.ProbeAddress)
	if c.Connectivity.ProbeAddress == "" {
		c.Connectivity.ProbeAddress = probeAddressFor(c.Upload.Transport, c.Upload.Endpoint)
	}
	if c.Connectivity.ProbeIntervalSeconds == 0 {
		c.Connectivity.ProbeIntervalSeconds = defaultProbeInterval
	}
	if c.Connectivity.ProbeTimeoutSeconds == 0 {
		c.Connectivity.ProbeTimeoutSeconds = defaultProbeTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// probeAddressFor derives a "host:port" address from an upload endpoint.
//
// It returns an empty string if no address can be derived.
func probeAddressFor(transport, endpoint string) string {
	if endpoint == "" {
		return ""
	}

	if transport == UploadTransportGRPC {
		target := endpoint
		if i := strings.Index(target, ":///"); i >= 0 {
			target = target[i+4:]
		}
		if _, _, err := net.SplitHostPort(target); err == nil {
			return target
		}
		return ""
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return ""
		}
	}

	return net.JoinHostPort(u.Hostname(), port)
}
