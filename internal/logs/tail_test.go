package logs_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"soundmod/internal/logs"
	"soundmod/internal/services"
)

func writeLog(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), "build-20260101-120000-abcd1234.log", "a\nb\nc\n", time.Now())

	lines, err := logs.Tail(path, 2)
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}

	all, err := logs.Tail(path, 0)
	if err != nil {
		t.Fatalf("tail all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected every line, got %#v", all)
	}
}

func TestTailShortFile(t *testing.T) {
	path := writeLog(t, t.TempDir(), "build-20260101-120000-abcd1234.log", "only\n", time.Now())
	lines, err := logs.Tail(path, 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(lines) != 1 || lines[0] != "only" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestListAndFind(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeLog(t, dir, "build-20260101-120000-aaaa1111.log", "old\n", now.Add(-2*time.Hour))
	newest := writeLog(t, dir, "build-20260101-130000-bbbb2222.log", "new\n", now)
	writeLog(t, dir, "notes.log", "ignored\n", now)

	entries, err := logs.List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 build logs, got %d", len(entries))
	}
	if entries[0].Path != newest || entries[0].BuildID != "bbbb2222" {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}

	latest, err := logs.Find(dir, "")
	if err != nil || latest.Path != newest {
		t.Fatalf("Find latest = %+v, %v", latest, err)
	}
	byID, err := logs.Find(dir, "aaaa")
	if err != nil || byID.BuildID != "aaaa1111" {
		t.Fatalf("Find by prefix = %+v, %v", byID, err)
	}
	byFullID, err := logs.Find(dir, "AAAA1111-2222-3333-4444-555555555555")
	if err != nil || byFullID.BuildID != "aaaa1111" {
		t.Fatalf("Find by full id = %+v, %v", byFullID, err)
	}

	if _, err := logs.Find(dir, "ffff"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMissingDir(t *testing.T) {
	entries, err := logs.List(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %v", entries)
	}
}

func TestParseRecord(t *testing.T) {
	line := `{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"stage completed","build_id":"x","stage":"render","event_type":"stage_complete","files":3}`
	rec, ok := logs.ParseRecord(line)
	if !ok {
		t.Fatal("expected JSON record")
	}
	if rec.Stage != "render" || rec.Message != "stage completed" || rec.Level != "info" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if _, present := rec.Attrs["build_id"]; present {
		t.Fatal("build_id should not be repeated in attrs")
	}
	text := rec.String()
	for _, want := range []string{"INFO", "(render)", "stage completed", "event_type=stage_complete", "files=3"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}

	if _, ok := logs.ParseRecord("plain text"); ok {
		t.Fatal("plain text must not parse")
	}
}
