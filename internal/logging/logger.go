package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"bookman/internal/config"

	"github.com/rs/zerolog"
)

// New builds the process logger. Level, format and destination come
// from config; zero values mean JSON at info level on stdout. The
// returned closer is non-nil only for file output.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	sink, closer, err := openSink(cfg)
	if err != nil {
		return nil, nil, err
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		sink = zerolog.ConsoleWriter{Out: sink, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if parsed, perr := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); perr == nil {
		level = parsed
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(sink).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &logger, closer, nil
}

func openSink(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return file, file, nil
	default:
		return os.Stdout, nil, nil
	}
}
