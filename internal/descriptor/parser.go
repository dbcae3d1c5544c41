package descriptor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	markerName       = 'n'
	markerExternalID = 'e'
	markerState      = 's'

	fieldSeparator = ","
	maxLineBytes   = 1024 * 1024
)

var (
	// ErrNoOpenEvent reports an e- or s-line that precedes every n-line.
	ErrNoOpenEvent = errors.New("no event declared before this line")
	// ErrUnknownMarker reports a line whose first byte is not a known marker.
	// Only returned in strict mode.
	ErrUnknownMarker = errors.New("unknown line marker")
	// ErrEmptyPrefix reports an s-line without a prefix. Only returned in
	// strict mode.
	ErrEmptyPrefix = errors.New("condition list prefix is empty")
)

// LineError ties a parse failure to its 1-based descriptor line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("descriptor line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Diagnostic describes a line the lenient parser skipped.
type Diagnostic struct {
	Line   int
	Text   string
	Reason error
}

// Option configures the parser.
type Option func(*parser)

// WithStrict rejects lines that lenient parsing would skip.
func WithStrict() Option {
	return func(p *parser) {
		p.strict = true
	}
}

// WithDiagnostics reports every skipped line to fn without failing the parse.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(p *parser) {
		p.diagnose = fn
	}
}

type parser struct {
	strict   bool
	diagnose func(Diagnostic)

	tree *Tree
	open *Event
}

// Parse reads a descriptor and builds the event tree in declaration order.
func Parse(r io.Reader, opts ...Option) (*Tree, error) {
	p := &parser{tree: &Tree{}}
	for _, opt := range opts {
		opt(p)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if err := p.line(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return p.tree, nil
}

// ParseString is Parse over an in-memory descriptor.
func ParseString(text string, opts ...Option) (*Tree, error) {
	return Parse(strings.NewReader(text), opts...)
}

// Load parses the descriptor file at path.
func Load(path string, opts ...Option) (*Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor: %w", err)
	}
	defer file.Close()
	tree, err := Parse(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func (p *parser) line(lineNo int, line string) error {
	if line == "" {
		return nil
	}
	payload := line[1:]
	switch line[0] {
	case markerName:
		p.open = &Event{Name: payload}
		p.tree.Events = append(p.tree.Events, p.open)
	case markerExternalID:
		if p.open == nil {
			return &LineError{Line: lineNo, Text: line, Err: ErrNoOpenEvent}
		}
		p.open.ExternalID = payload
		p.open.HasExternalID = true
	case markerState:
		if p.open == nil {
			return &LineError{Line: lineNo, Text: line, Err: ErrNoOpenEvent}
		}
		list := parseConditionList(payload)
		if list.Prefix == "" {
			if err := p.skip(lineNo, line, ErrEmptyPrefix); err != nil {
				return err
			}
		}
		p.open.Lists = append(p.open.Lists, list)
	default:
		return p.skip(lineNo, line, ErrUnknownMarker)
	}
	return nil
}

func (p *parser) skip(lineNo int, line string, reason error) error {
	if p.strict {
		return &LineError{Line: lineNo, Text: line, Err: reason}
	}
	if p.diagnose != nil {
		p.diagnose(Diagnostic{Line: lineNo, Text: line, Reason: reason})
	}
	return nil
}

// parseConditionList splits "prefix,name,value,..." into a list. A trailing
// state name without a value keeps an empty value.
func parseConditionList(payload string) *ConditionList {
	fields := strings.Split(payload, fieldSeparator)
	list := &ConditionList{Prefix: fields[0]}
	rest := fields[1:]
	for i := 0; i < len(rest); i += 2 {
		state := State{Name: rest[i]}
		if i+1 < len(rest) {
			state.Value = rest[i+1]
		}
		list.States = append(list.States, state)
	}
	return list
}
