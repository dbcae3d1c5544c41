package sources

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"soundmod/internal/services"
)

const (
	// ListFileName is the external sources list WwiseCLI reads.
	ListFileName = "MySources.xml"
	xmlHeader    = `<?xml version="1.0" encoding="utf-8"?>`
)

// RenderExternalSources returns the external sources list document: one
// Source element per file, paths relative to root.
func RenderExternalSources(root, conversion string, files []string) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "<ExternalSourcesList SchemaVersion=\"1\" Root=\"%s\">\n", attr(root))
	for _, file := range files {
		fmt.Fprintf(&buf, "\t<Source Path=\"%s\" Conversion=\"%s\"/>\n", attr(file), attr(conversion))
	}
	buf.WriteString("</ExternalSourcesList>\n")
	return buf.Bytes()
}

// WriteExternalSources writes the list to path, creating its directory.
func WriteExternalSources(path, root, conversion string, files []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrIO, "collect", "create temp dir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, RenderExternalSources(root, conversion, files), 0o644); err != nil {
		return services.Wrap(services.ErrIO, "collect", "write sources list", path, err)
	}
	return nil
}

func attr(value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}
