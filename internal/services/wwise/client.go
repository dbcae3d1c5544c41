package wwise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/encoding"

	"soundmod/internal/logging"
	"soundmod/internal/textutil"
)

// Executor abstracts command execution for testability. onLine receives every
// output line, stdout and stderr interleaved, as raw bytes.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func([]byte)) error
}

// Converter is the behaviour the build pipeline needs from WwiseCLI.
type Converter interface {
	Convert(ctx context.Context, req Request) (Result, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLauncher runs the CLI through launcher, passing the CLI path as its
// first argument.
func WithLauncher(launcher string) Option {
	return func(c *Client) {
		c.launcher = strings.TrimSpace(launcher)
	}
}

// WithCodepage decodes tool output from the named codepage.
func WithCodepage(enc encoding.Encoding) Option {
	return func(c *Client) {
		c.encoding = enc
	}
}

// WithLogger sets the logger output lines are written to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps WwiseCLI interactions.
type Client struct {
	binary   string
	launcher string
	timeout  time.Duration
	encoding encoding.Encoding
	exec     Executor
	logger   *slog.Logger
}

// New constructs a WwiseCLI client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("wwise cli path required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Request describes one conversion run.
type Request struct {
	Project     string
	SourcesList string
	OutputDir   string
}

// Result summarizes a conversion run.
type Result struct {
	Lines    int
	Warnings []string
	Errors   []string
	Duration time.Duration
}

// Exit statuses WwiseCLI reports besides success.
const (
	exitErrors   = 1
	exitWarnings = 2
)

// ErrConversionFailed reports a WwiseCLI run that ended with errors.
var ErrConversionFailed = errors.New("wwise conversion failed")

// Args returns the WwiseCLI arguments for req.
func Args(req Request) []string {
	return []string{
		req.Project,
		"-ConvertExternalSources", req.SourcesList,
		"-ExternalSourcesOutput", req.OutputDir,
		"-verbose",
	}
}

// Convert runs WwiseCLI for req. An exit status signalling only warnings is
// not an error; the warning lines are returned in the result.
func (c *Client) Convert(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Project) == "" || strings.TrimSpace(req.SourcesList) == "" || strings.TrimSpace(req.OutputDir) == "" {
		return Result{}, errors.New("project, sources list and output directory required")
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	binary, args := c.binary, Args(req)
	if c.launcher != "" {
		binary, args = c.launcher, append([]string{c.binary}, args...)
	}

	var result Result
	started := time.Now()
	err := c.exec.Run(runCtx, binary, args, func(raw []byte) {
		line := strings.TrimSpace(textutil.Decode(c.encoding, raw))
		if line == "" {
			return
		}
		result.Lines++
		switch classify(line) {
		case lineError:
			result.Errors = append(result.Errors, line)
			c.logger.Warn("wwise error", slog.String("line", line))
		case lineWarning:
			result.Warnings = append(result.Warnings, line)
			c.logger.Debug("wwise warning", slog.String("line", line))
		default:
			c.logger.Debug("wwise", slog.String("line", line))
		}
	})
	result.Duration = time.Since(started)

	if err != nil {
		if runCtx.Err() != nil && ctx.Err() == nil {
			return result, fmt.Errorf("wwise conversion timed out after %s: %w", c.timeout, runCtx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitWarnings {
			return result, nil
		}
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitErrors {
			return result, fmt.Errorf("%w: %s", ErrConversionFailed, summarize(result.Errors))
		}
		return result, fmt.Errorf("wwise convert: %w", err)
	}
	return result, nil
}

type lineKind int

const (
	lineInfo lineKind = iota
	lineWarning
	lineError
)

func classify(line string) lineKind {
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "error"), strings.HasPrefix(lower, "fatal error"), strings.Contains(lower, " error:"):
		return lineError
	case strings.HasPrefix(lower, "warning"), strings.Contains(lower, " warning:"):
		return lineWarning
	default:
		return lineInfo
	}
}

func summarize(lines []string) string {
	switch len(lines) {
	case 0:
		return "no error output"
	case 1:
		return lines[0]
	default:
		return fmt.Sprintf("%s (and %d more)", lines[0], len(lines)-1)
	}
}
