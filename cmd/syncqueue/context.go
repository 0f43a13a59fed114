package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fieldpos/syncqueue"
	"github.com/fieldpos/syncqueue/internal/config"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/fieldpos/syncqueue/persistence/boltpersistence"
	"github.com/fieldpos/syncqueue/persistence/memorypersistence"
	"github.com/fieldpos/syncqueue/persistence/sqlpersistence"
	"github.com/fieldpos/syncqueue/persistence/sqlpersistence/sqlite"
	"github.com/fieldpos/syncqueue/upload/grpcupload"
	"github.com/fieldpos/syncqueue/upload/httpupload"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const skipConfigAnnotation = "syncqueue/skip-config"

// errNoEndpoint is returned by uploads when no endpoint is configured.
var errNoEndpoint = errors.New("upload.endpoint is not configured")

// sqliteDriverName is the database/sql driver registered by modernc.org/sqlite.
const sqliteDriverName = "sqlite"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configPath, _, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// session is an opened queue manager and the resources it depends on.
type session struct {
	Config  *config.Config
	Manager *syncqueue.Manager
	Logger  *zap.Logger

	closers []func() error
}

// Close releases the session's resources in reverse order.
func (s *session) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i]())
	}
	return err
}

func (s *session) onClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// openSession opens the configured store and uploader and loads the queue.
//
// The caller must close the returned session.
func (c *commandContext) openSession(ctx context.Context, logOut io.Writer) (_ *session, err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newZapLogger(cfg.Logging, logOut)
	if err != nil {
		return nil, err
	}

	s := &session{
		Config: cfg,
		Logger: logger,
	}
	s.onClose(func() error {
		logger.Sync() // nolint:errcheck
		return nil
	})

	defer func() {
		if err != nil {
			s.Close() // nolint:errcheck
		}
	}()

	ds, err := openDataStore(ctx, s, cfg.Store)
	if err != nil {
		return nil, err
	}

	u, err := newUploader(s, cfg.Upload)
	if err != nil {
		return nil, err
	}

	s.Manager = syncqueue.New(
		ds,
		u,
		syncqueue.WithStorageKey(cfg.Queue.StorageKey),
		syncqueue.WithDeviceID(cfg.Queue.DeviceID),
		syncqueue.WithUploadTimeout(cfg.UploadTimeout()),
		syncqueue.WithZapLogger(logger),
	)

	if err := s.Manager.Load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// openDataStore opens the data-store described by cfg and registers its
// cleanup with s.
func openDataStore(
	ctx context.Context,
	s *session,
	cfg config.Store,
) (persistence.DataStore, error) {
	var p persistence.Provider

	switch cfg.Driver {
	case config.StoreDriverMemory:
		p = &memorypersistence.Provider{}

	case config.StoreDriverBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		p = &boltpersistence.FileProvider{Path: cfg.Path}

	case config.StoreDriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		db, err := openSQL(ctx, s, sqliteDriverName, "file:"+cfg.Path+"?_pragma=busy_timeout(5000)")
		if err != nil {
			return nil, err
		}
		p = &sqlpersistence.Provider{DB: db, Driver: sqlite.Driver}

	case config.StoreDriverSQL:
		db, err := openSQL(ctx, s, cfg.DriverName, cfg.DSN)
		if err != nil {
			return nil, err
		}
		p = &sqlpersistence.Provider{DB: db}

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	ds, err := p.Open(ctx, cfg.Namespace)
	if err != nil {
		return nil, fmt.Errorf("unable to open data-store: %w", err)
	}
	s.onClose(ds.Close)

	return ds, nil
}

// openSQL opens a database pool and creates the schema if necessary.
func openSQL(
	ctx context.Context,
	s *session,
	driverName, dsn string,
) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	s.onClose(db.Close)

	if err := sqlpersistence.CreateSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("unable to create schema: %w", err)
	}

	return db, nil
}

// newUploader returns the uploader described by cfg.
//
// If no endpoint is configured it returns an uploader that always fails, so
// that the queue can still be inspected and appended to.
func newUploader(s *session, cfg config.Upload) (syncqueue.Uploader, error) {
	if cfg.Endpoint == "" {
		return syncqueue.UploaderFunc(
			func(context.Context, syncqueue.PendingOperation) error {
				return errNoEndpoint
			},
		), nil
	}

	switch cfg.Transport {
	case config.UploadTransportGRPC:
		creds := credentials.NewClientTLSFromCert(nil, "")
		if cfg.Insecure {
			creds = insecure.NewCredentials()
		}

		conn, err := grpc.Dial(
			cfg.Endpoint,
			grpc.WithTransportCredentials(creds),
			grpc.WithUnaryInterceptor(withMetadata(grpcMetadata(cfg))),
		)
		if err != nil {
			return nil, fmt.Errorf("unable to dial %s: %w", cfg.Endpoint, err)
		}
		s.onClose(conn.Close)

		return &grpcupload.Uploader{Conn: conn}, nil

	default:
		h := http.Header{}
		for k, v := range cfg.Headers {
			h.Set(k, v)
		}
		if cfg.Token != "" {
			h.Set("Authorization", "Bearer "+cfg.Token)
		}

		return &httpupload.Uploader{
			Endpoint: cfg.Endpoint,
			Header:   h,
		}, nil
	}
}

// grpcMetadata returns the outgoing metadata for gRPC uploads.
func grpcMetadata(cfg config.Upload) metadata.MD {
	md := metadata.MD{}
	for k, v := range cfg.Headers {
		md.Set(k, v)
	}
	if cfg.Token != "" {
		md.Set("authorization", "Bearer "+cfg.Token)
	}
	return md
}

// withMetadata returns an interceptor that attaches md to outgoing calls.
func withMetadata(md metadata.MD) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if md.Len() > 0 {
			ctx = metadata.NewOutgoingContext(ctx, md)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// newZapLogger returns a logger that writes to w.
func newZapLogger(cfg config.Logging, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}
