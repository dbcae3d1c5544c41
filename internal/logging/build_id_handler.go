package logging

import (
	"context"
	"log/slog"
	"slices"
)

// buildIDHandler wraps another handler to inject a build_id attribute into
// every record. Once a logger derived from it carries its own build_id
// attribute the injection stops, so the key is never written twice.
type buildIDHandler struct {
	base    slog.Handler
	buildID string
	tagged  bool
}

func newBuildIDHandler(base slog.Handler, buildID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	if buildID == "" {
		return base
	}
	return &buildIDHandler{base: base, buildID: buildID}
}

func (h *buildIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *buildIDHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.tagged {
		record.AddAttrs(slog.String(FieldBuildID, h.buildID))
	}
	return h.base.Handle(ctx, record)
}

func (h *buildIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &buildIDHandler{
		base:    h.base.WithAttrs(attrs),
		buildID: h.buildID,
		tagged:  h.tagged || slices.ContainsFunc(attrs, func(a slog.Attr) bool { return a.Key == FieldBuildID }),
	}
}

func (h *buildIDHandler) WithGroup(name string) slog.Handler {
	return &buildIDHandler{base: h.base.WithGroup(name), buildID: h.buildID, tagged: h.tagged}
}
