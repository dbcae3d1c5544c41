// Package textutil provides small text helpers shared across soundmod:
// filename sanitization for mod directory names and decoding of console
// output written in legacy Windows codepages.
package textutil
