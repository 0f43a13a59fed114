package loggingx

import (
	"fmt"

	"github.com/dogmatiq/dodeca/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FromZap returns a logger that writes to a zap logger.
//
// Messages are written at the "info" level, debug messages at the "debug"
// level.
func FromZap(target *zap.Logger) logging.Logger {
	return &zapLogger{target}
}

type zapLogger struct {
	target *zap.Logger
}

func (z *zapLogger) Log(f string, v ...interface{}) {
	z.target.Info(fmt.Sprintf(f, v...))
}

func (z *zapLogger) LogString(s string) {
	z.target.Info(s)
}

func (z *zapLogger) Debug(f string, v ...interface{}) {
	if z.IsDebug() {
		z.target.Debug(fmt.Sprintf(f, v...))
	}
}

func (z *zapLogger) DebugString(s string) {
	z.target.Debug(s)
}

func (z *zapLogger) IsDebug() bool {
	return z.target.Core().Enabled(zapcore.DebugLevel)
}
