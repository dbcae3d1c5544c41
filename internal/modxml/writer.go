package modxml

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

const indentUnit = "\t"

// tagWriter emits tab-indented elements. The first write error sticks and
// every later call becomes a no-op.
type tagWriter struct {
	w     *bufio.Writer
	depth int
	err   error
}

func newTagWriter(w io.Writer) *tagWriter {
	return &tagWriter{w: bufio.NewWriter(w)}
}

func (t *tagWriter) line(parts ...string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(strings.Repeat(indentUnit, t.depth)); err != nil {
		t.err = err
		return
	}
	for _, part := range parts {
		if _, err := t.w.WriteString(part); err != nil {
			t.err = err
			return
		}
	}
	t.err = t.w.WriteByte('\n')
}

func (t *tagWriter) raw(s string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(s); err != nil {
		t.err = err
		return
	}
	t.err = t.w.WriteByte('\n')
}

func (t *tagWriter) open(tag string) {
	t.line("<", tag, ">")
	t.depth++
}

func (t *tagWriter) close(tag string) {
	t.depth--
	t.line("</", tag, ">")
}

func (t *tagWriter) empty(tag string) {
	t.line("<", tag, "/>")
}

// field writes <tag>value</tag> on one line with value escaped.
func (t *tagWriter) field(tag, value string) {
	t.line("<", tag, ">", escape(value), "</", tag, ">")
}

func (t *tagWriter) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

func escape(value string) string {
	if !strings.ContainsAny(value, "<>&'\"\r\n\t") {
		return value
	}
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}
