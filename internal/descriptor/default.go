package descriptor

import (
	_ "embed"
	"strings"
)

//go:embed default_descriptor.txt
var defaultDescriptor string

// Default parses the descriptor bundled with the binary.
func Default() (*Tree, error) {
	return Parse(strings.NewReader(defaultDescriptor))
}

// DefaultText returns the bundled descriptor source.
func DefaultText() string {
	return defaultDescriptor
}
