// Package diag records non-fatal diagnostics raised while laying out a grid
// and writes them to a structured zap logger.
package diag

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// PinRefused: a pin request would have pushed the pinned area past its cap.
	PinRefused Kind = "pin_refused"
	// ForcedUnpin: a column declared as pinned did not fit and was unpinned.
	ForcedUnpin Kind = "forced_unpin"
	// NotConverged: the sizing loop hit its pass bound with a scrollbar still flipping.
	NotConverged Kind = "not_converged"
	// Degenerate: geometry inputs were empty or non-finite and were defaulted.
	Degenerate Kind = "degenerate_geometry"
)

// Diagnostic is one recorded warning.
type Diagnostic struct {
	Kind    Kind    `json:"kind" yaml:"kind"`
	Field   string  `json:"field,omitempty" yaml:"field,omitempty"`
	Message string  `json:"message" yaml:"message"`
	Value   float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Limit   float64 `json:"limit,omitempty" yaml:"limit,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Field == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Field, d.Message)
}

// MaxEntries bounds the number of diagnostics a Recorder keeps; older
// entries are dropped first.
const MaxEntries = 256

// Recorder keeps the diagnostics of one grid and logs each of them.
// A nil *Recorder discards everything.
type Recorder struct {
	logger  *zap.Logger
	entries []Diagnostic
}

// NewRecorder creates a recorder writing to logger. A nil logger is
// replaced with a no-op one.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger}
}

// Logger returns the underlying logger.
func (r *Recorder) Logger() *zap.Logger {
	if r == nil {
		return zap.NewNop()
	}
	return r.logger
}

// Warn records d and logs it at warn level.
func (r *Recorder) Warn(d Diagnostic) {
	if r == nil {
		return
	}
	if len(r.entries) >= MaxEntries {
		r.entries = append(r.entries[:0], r.entries[1:]...)
	}
	r.entries = append(r.entries, d)

	fields := []zap.Field{zap.String("kind", string(d.Kind))}
	if d.Field != "" {
		fields = append(fields, zap.String("field", d.Field))
	}
	if d.Value != 0 || d.Limit != 0 {
		fields = append(fields, zap.Float64("value", d.Value), zap.Float64("limit", d.Limit))
	}
	r.logger.Warn(d.Message, fields...)
}

// Entries returns a copy of the recorded diagnostics, oldest first.
func (r *Recorder) Entries() []Diagnostic {
	if r == nil {
		return nil
	}
	return append([]Diagnostic(nil), r.entries...)
}

// Count returns how many recorded diagnostics have the given kind.
func (r *Recorder) Count(kind Kind) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.entries {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded diagnostics.
func (r *Recorder) Reset() {
	if r != nil {
		r.entries = r.entries[:0]
	}
}

// NewLogger builds the logger used by the command line tools: console
// encoded on stderr, debug level when verbose, warn level otherwise.
func NewLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: verbose,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
