package bot

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// NewLogger creates the process logger. JSON goes to machines; text is the
// colored console format.
func NewLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	case LogFormatText:
		handler := log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Level:           log.Level(lvl),
		})
		return slog.New(handler), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
