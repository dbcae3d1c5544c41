package gameinfo_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundmod/internal/gameinfo"
)

const preferences = "<preferences.xml>\r\n" +
	"\t<scriptsPreferences>\r\n" +
	"\t\t<last_server_version>\t0,12,3,0,7234567\t</last_server_version>\r\n" +
	"\t</scriptsPreferences>\r\n" +
	"</preferences.xml>\r\n"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "preferences", input: preferences, want: "7234567"},
		{name: "no comma", input: "<last_server_version>\t8123456\t</last_server_version>\n", want: "8123456"},
		{name: "no trailing tab", input: "last_server_version 0,1,2,3,99\n", want: "99"},
		{name: "missing", input: "<other>1</other>\n", wantErr: true},
		{name: "empty value", input: "\t<last_server_version>\t0,1,\t</last_server_version>\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gameinfo.ParseVersion(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, gameinfo.ErrVersionNotFound) {
					t.Fatalf("expected ErrVersionNotFound, got %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion: %v", err)
			}
			if got != tt.want {
				t.Fatalf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, gameinfo.PreferencesFile)
	if err := os.WriteFile(path, []byte(preferences), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := gameinfo.ReadVersion(path)
	if err != nil {
		t.Fatalf("ReadVersion: %v", err)
	}
	if got != "7234567" {
		t.Fatalf("version = %q", got)
	}

	if _, err := gameinfo.ReadVersion(filepath.Join(dir, "missing.xml")); err == nil {
		t.Fatal("expected error for missing preferences file")
	}
}

func TestModTargetDir(t *testing.T) {
	got := gameinfo.ModTargetDir("/games/wows", "7234567", "MyMod")
	want := filepath.Join("/games/wows", "bin", "7234567", "res_mods", "banks", "mods", "MyMod")
	if got != want {
		t.Fatalf("ModTargetDir = %q, want %q", got, want)
	}
}
