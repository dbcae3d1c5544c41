package textutil

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// codepageAliases maps the short names Windows tools print to IANA names.
var codepageAliases = map[string]string{
	"cp1251": "windows-1251",
	"1251":   "windows-1251",
	"cp1252": "windows-1252",
	"1252":   "windows-1252",
	"cp866":  "IBM866",
	"866":    "IBM866",
	"cp437":  "IBM437",
	"437":    "IBM437",
}

// LookupEncoding resolves a codepage name. Empty, "utf-8" and "utf8" resolve
// to a pass-through UTF-8 encoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "windows-1251":
		return charmap.Windows1251, nil
	}
	if alias, ok := codepageAliases[key]; ok {
		key = alias
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, fmt.Errorf("unknown codepage %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported codepage %q", name)
	}
	return enc, nil
}

// Decode converts data from enc to UTF-8. Input that is already valid UTF-8
// beyond plain ASCII is returned unchanged, since tools sometimes switch
// their console to UTF-8 regardless of the system codepage.
func Decode(enc encoding.Encoding, data []byte) string {
	if enc == nil || enc == unicode.UTF8 || isPlainASCII(data) {
		return string(data)
	}
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func isPlainASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
