package wwise_test

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"

	"soundmod/internal/services/wwise"
	"soundmod/internal/testsupport"
)

type stubExecutor struct {
	lines  [][]byte
	err    error
	binary string
	args   []string
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, onLine func([]byte)) error {
	s.binary = binary
	s.args = append([]string(nil), args...)
	for _, line := range s.lines {
		onLine(line)
	}
	return s.err
}

var request = wwise.Request{
	Project:     "/p/Project.wproj",
	SourcesList: "/src/Windows/MySources.xml",
	OutputDir:   "/src",
}

func TestConvertBuildsArguments(t *testing.T) {
	exec := &stubExecutor{}
	client, err := wwise.New("/w/WwiseCLI.exe", 5, wwise.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Convert(context.Background(), request); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := []string{"/p/Project.wproj", "-ConvertExternalSources", "/src/Windows/MySources.xml", "-ExternalSourcesOutput", "/src", "-verbose"}
	if exec.binary != "/w/WwiseCLI.exe" || strings.Join(exec.args, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected invocation: %s %v", exec.binary, exec.args)
	}
}

func TestConvertUsesLauncher(t *testing.T) {
	exec := &stubExecutor{}
	client, err := wwise.New("/w/WwiseCLI.exe", 5, wwise.WithExecutor(exec), wwise.WithLauncher("wine"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Convert(context.Background(), request); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if exec.binary != "wine" || exec.args[0] != "/w/WwiseCLI.exe" || len(exec.args) != 7 {
		t.Fatalf("unexpected invocation: %s %v", exec.binary, exec.args)
	}
}

func TestConvertDecodesAndClassifiesOutput(t *testing.T) {
	russian, err := charmap.Windows1251.NewEncoder().String("Ошибка: файл не найден")
	if err != nil {
		t.Fatal(err)
	}
	exec := &stubExecutor{lines: [][]byte{
		[]byte("Converting external sources..."),
		[]byte("Warning: sample rate changed"),
		[]byte(""),
		[]byte("Error: " + russian),
	}}
	client, err := wwise.New("WwiseCLI.exe", 5, wwise.WithExecutor(exec), wwise.WithCodepage(charmap.Windows1251))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.Convert(context.Background(), request)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Lines != 3 {
		t.Fatalf("expected 3 non-empty lines, got %d", result.Lines)
	}
	if len(result.Warnings) != 1 || len(result.Errors) != 1 {
		t.Fatalf("unexpected classification: %#v", result)
	}
	if result.Errors[0] != "Error: Ошибка: файл не найден" {
		t.Fatalf("unexpected decoded line: %q", result.Errors[0])
	}
}

func TestConvertWrapsExecutorError(t *testing.T) {
	client, err := wwise.New("WwiseCLI.exe", 5, wwise.WithExecutor(&stubExecutor{err: errors.New("boom")}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Convert(context.Background(), request); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected executor error, got %v", err)
	}
}

func TestConvertRequiresPaths(t *testing.T) {
	client, err := wwise.New("WwiseCLI.exe", 5, wwise.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Convert(context.Background(), wwise.Request{Project: "p"}); err == nil {
		t.Fatal("expected error for incomplete request")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := wwise.New("  ", 5); err == nil {
		t.Fatal("expected error for blank binary")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unavailable on windows")
	}
	path := filepath.Join(t.TempDir(), "WwiseCLI")
	testsupport.WriteExecutable(t, path, "#!/bin/sh\n"+body)
	return path
}

func TestCommandExecutorExitStatuses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		ok      bool
	}{
		{name: "success", body: "echo converted\nexit 0\n", ok: true},
		{name: "warnings", body: "echo 'Warning: clipped' >&2\nexit 2\n", ok: true},
		{name: "errors", body: "echo 'Error: missing source'\nexit 1\n", wantErr: wwise.ErrConversionFailed},
		{name: "crash", body: "exit 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := wwise.New(writeScript(t, tt.body), 5)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			result, err := client.Convert(context.Background(), request)
			switch {
			case tt.ok:
				if err != nil {
					t.Fatalf("Convert returned error: %v", err)
				}
				if result.Lines != 1 {
					t.Fatalf("expected one output line, got %d", result.Lines)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !strings.Contains(err.Error(), "missing source") {
					t.Fatalf("expected error line in message, got %v", err)
				}
			default:
				if err == nil {
					t.Fatal("expected error")
				}
			}
		})
	}
}

func TestCommandExecutorTimeout(t *testing.T) {
	client, err := wwise.New(writeScript(t, "exec sleep 5\n"), 1)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	started := time.Now()
	_, err = client.Convert(context.Background(), request)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if time.Since(started) > 4*time.Second {
		t.Fatal("timeout did not stop the command")
	}
}
