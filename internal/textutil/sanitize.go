package textutil

import (
	"strings"
	"unicode"
)

// dirNameReplacer maps characters Windows rejects in path components.
var dirNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

var reservedDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeFileName turns a mod caption into a directory name the game client
// can load on Windows. Path separators, colons and asterisks become dashes,
// the remaining reserved characters and control characters are dropped, and
// trailing dots are trimmed. Device names such as CON get an underscore
// suffix. An empty or fully stripped caption yields "".
func SanitizeFileName(name string) string {
	name = dirNameReplacer.Replace(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimRight(strings.TrimSpace(name), ". ")
	if name == "" {
		return ""
	}
	stem, _, _ := strings.Cut(name, ".")
	if reservedDeviceNames[strings.ToUpper(stem)] {
		name += "_"
	}
	return name
}
