// Package sources prepares the source audio directory for conversion: it
// gives relevant .wav files the mod prefix, selects the files to convert and
// writes the external sources list WwiseCLI consumes.
package sources
