package control

import (
	"bytes"
	"log/slog"

	"github.com/haoxiangmiao/feat3-sub001/gate"
)

// Logger is a rank-aware wrapper around log/slog, grounded on the
// original's kernel/logger.hpp: by default only rank 0 of comm emits
// output; PlotAllRanks overrides that for debugging a specific rank's
// divergence. A bounded ring buffer retains the last N formatted lines
// so --test mode can assert against expected log content without
// parsing stdout.
type Logger struct {
	slog         *slog.Logger
	comm         gate.Comm
	PlotAllRanks bool

	ring    []string
	ringCap int
}

// NewLogger builds a Logger over comm, using handler for the underlying
// slog output and keeping the last ringCap formatted lines.
func NewLogger(comm gate.Comm, handler slog.Handler, ringCap int) *Logger {
	if ringCap <= 0 {
		ringCap = 256
	}
	return &Logger{slog: slog.New(handler), comm: comm, ringCap: ringCap}
}

func (l *Logger) shouldEmit() bool {
	return l.PlotAllRanks || l.comm == nil || l.comm.Rank() == 0
}

func (l *Logger) record(level, msg string, args ...any) {
	var buf bytes.Buffer
	buf.WriteString(level)
	buf.WriteString(": ")
	buf.WriteString(msg)
	l.ring = append(l.ring, buf.String())
	if len(l.ring) > l.ringCap {
		l.ring = l.ring[len(l.ring)-l.ringCap:]
	}
	if !l.shouldEmit() {
		return
	}
	switch level {
	case "debug":
		l.slog.Debug(msg, args...)
	case "info":
		l.slog.Info(msg, args...)
	case "warn":
		l.slog.Warn(msg, args...)
	case "error":
		l.slog.Error(msg, args...)
	}
}

func (l *Logger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.record("error", msg, args...) }

// RecentLines returns a copy of the ring buffer's current contents,
// oldest first.
func (l *Logger) RecentLines() []string {
	return append([]string(nil), l.ring...)
}
