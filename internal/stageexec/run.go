package stageexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"soundmod/internal/logging"
	"soundmod/internal/services"
)

// Func is the body of one pipeline stage. The logger carries the build and
// stage fields.
type Func func(ctx context.Context, logger *slog.Logger) error

// Options controls a single stage execution.
type Options struct {
	Logger    *slog.Logger
	StageName string
	Run       Func
	// Attrs are added to the stage_start record.
	Attrs []slog.Attr
}

// Timing records how one stage went.
type Timing struct {
	Stage    string
	Duration time.Duration
	Err      error
}

// Run executes a stage with its own context and logger, emitting
// stage_start and stage_complete or stage_failure records around it.
func Run(ctx context.Context, opts Options) (Timing, error) {
	timing := Timing{Stage: opts.StageName}
	if opts.Run == nil {
		err := fmt.Errorf("stage function unavailable: %s", opts.StageName)
		timing.Err = err
		return timing, err
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)

	startAttrs := append([]slog.Attr{slog.String(logging.FieldEventType, "stage_start")}, opts.Attrs...)
	stageLogger.Info("stage started", logging.Args(startAttrs...)...)

	started := time.Now()
	err := opts.Run(stageCtx, stageLogger)
	timing.Duration = time.Since(started)
	if err == nil && stageCtx.Err() != nil {
		err = stageCtx.Err()
	}
	if err != nil {
		timing.Err = err
		return timing, handleFailure(stageLogger, timing, err)
	}

	stageLogger.Info(
		"stage completed",
		slog.String(logging.FieldEventType, "stage_complete"),
		slog.Duration("duration", timing.Duration),
	)
	return timing, nil
}

func handleFailure(logger *slog.Logger, timing Timing, stageErr error) error {
	message := strings.TrimSpace(stageErr.Error())
	attrs := []slog.Attr{
		slog.String(logging.FieldEventType, "stage_failure"),
		slog.String("error_message", message),
		slog.Duration("duration", timing.Duration),
		logging.Error(stageErr),
	}
	if hint := hintFor(stageErr); hint != "" {
		attrs = append(attrs, slog.String(logging.FieldErrorHint, hint))
	}
	logger.Error("stage failed", logging.Args(attrs...)...)
	return stageErr
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "build was interrupted"
	case errors.Is(err, services.ErrConfiguration), errors.Is(err, services.ErrValidation):
		return "check the configuration with soundmod config validate"
	case errors.Is(err, services.ErrExternalTool):
		return "inspect the WwiseCLI output in the build log"
	case errors.Is(err, services.ErrLocked):
		return "another build is running against the same source directory"
	default:
		return ""
	}
}

// Label turns a stage name such as "write_sources" into "Write Sources".
func Label(stage string) string {
	if stage == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(stage, "_", " "))
	for i, part := range parts {
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
