package config

const (
	defaultConfigPath          = "~/.config/syncqueue/config.toml"
	defaultStoreDriver         = StoreDriverBolt
	defaultStorePath           = "~/.local/share/syncqueue/queue.boltdb"
	defaultStoreNamespace      = "default"
	defaultStorageKey          = "syncQueue"
	defaultUploadTransport     = UploadTransportHTTP
	defaultUploadTimeout       = 30
	defaultProbeInterval       = 5
	defaultProbeTimeout        = 2
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with the default values.
func Default() Config {
	return Config{
		Store: Store{
			Driver:    defaultStoreDriver,
			Path:      defaultStorePath,
			Namespace: defaultStoreNamespace,
		},
		Queue: Queue{
			StorageKey: defaultStorageKey,
		},
		Upload: Upload{
			Transport:      defaultUploadTransport,
			TimeoutSeconds: defaultUploadTimeout,
		},
		Connectivity: Connectivity{
			ProbeIntervalSeconds: defaultProbeInterval,
			ProbeTimeoutSeconds:  defaultProbeTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
