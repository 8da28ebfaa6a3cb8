package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the narration surface components depend on. Narration never
// drives control flow.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

// New creates the terminal logger. Informational narration is only shown when
// verbose is set; warnings and errors always are.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "workshop",
		Level:  level,
	})
}

// NewFile creates a logger that writes logfmt lines to a timestamped file
// inside dir. The returned closer should be closed when logging is no longer
// needed.
func NewFile(dir string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(dir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, file, nil
}

// Info adapts a charm logger so Printf narration is emitted at info level.
func Info(l *log.Logger) Logger {
	if l == nil {
		return Nop()
	}
	return infoLogger{l: l}
}

type infoLogger struct {
	l *log.Logger
}

func (i infoLogger) Printf(format string, v ...any) {
	i.l.Infof(format, v...)
}

// Multi fans narration out to every non-nil logger.
func Multi(loggers ...Logger) Logger {
	var out multiLogger
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return Nop()
	}
	return out
}

type multiLogger []Logger

func (m multiLogger) Printf(format string, v ...any) {
	for _, l := range m {
		l.Printf(format, v...)
	}
}

// Recorder collects formatted lines. Tests use it to assert on narration.
type Recorder struct {
	Lines []string
}

func (r *Recorder) Printf(format string, v ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, v...))
}
