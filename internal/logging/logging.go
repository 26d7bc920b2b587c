package logging

import (
	"io"
	"log/slog"

	"github.com/natefinch/lumberjack"
)

// Options — куда и насколько подробно писать журнал.
type Options struct {
	Verbose bool
	Quiet   bool
	File    string // дополнительно пишем в ротируемый файл
}

// New собирает текстовый slog-логгер. Закрыть closer нужно при выходе.
func New(stderr io.Writer, o Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	switch {
	case o.Verbose:
		level = slog.LevelDebug
	case o.Quiet:
		level = slog.LevelWarn
	}

	w := stderr
	var closer io.Closer = nopCloser{}
	if o.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10, // мегабайт
			MaxBackups: 3,
			MaxAge:     28, // дней
			Compress:   true,
		}
		w = io.MultiWriter(stderr, fileLogger)
		closer = fileLogger
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
