package logging

import (
	"context"
	"log/slog"
)

// mirrorHandler sends every record to the console handler and a copy to the
// build log handler. Each side applies its own level.
type mirrorHandler struct {
	console slog.Handler
	file    slog.Handler
}

func newMirrorHandler(console, file slog.Handler) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case console == nil:
		return file
	case file == nil:
		return console
	}
	return &mirrorHandler{console: console, file: file}
}

func (h *mirrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *mirrorHandler) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr error
	if h.console.Enabled(ctx, record.Level) {
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		if err := h.file.Handle(ctx, record); err != nil && consoleErr == nil {
			return err
		}
	}
	return consoleErr
}

func (h *mirrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mirrorHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *mirrorHandler) WithGroup(name string) slog.Handler {
	return &mirrorHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}

// Mirror returns a logger that writes to base and to file. A nil base yields
// a logger over file alone.
func Mirror(base *slog.Logger, file slog.Handler) *slog.Logger {
	var console slog.Handler
	if base != nil {
		console = base.Handler()
	}
	return slog.New(newMirrorHandler(console, file))
}
