package loggingx

import (
	"fmt"
	"strings"

	"github.com/dogmatiq/dodeca/logging"
)

// WithPrefix returns a logger that prepends a formatted prefix to each
// message written to target.
//
// It returns target unchanged if the prefix is empty.
func WithPrefix(target logging.Logger, f string, v ...any) logging.Logger {
	p := fmt.Sprintf(f, v...)
	if p == "" {
		return target
	}

	return prefixed{
		Logger:  target,
		literal: p,
		escaped: strings.ReplaceAll(p, "%", "%%"),
	}
}

// prefixed is a logging.Logger that adds a prefix to each message. IsDebug()
// is provided by the embedded logger.
type prefixed struct {
	logging.Logger

	literal string // used with pre-formatted strings
	escaped string // used with format specifiers
}

func (p prefixed) Log(f string, v ...any) {
	p.Logger.Log(p.escaped+f, v...)
}

func (p prefixed) LogString(s string) {
	p.Logger.LogString(p.literal + s)
}

func (p prefixed) Debug(f string, v ...any) {
	p.Logger.Debug(p.escaped+f, v...)
}

func (p prefixed) DebugString(s string) {
	p.Logger.DebugString(p.literal + s)
}
