// Package wwise wraps the WwiseCLI command line used to convert external
// .wav sources into .wem files.
//
// The client builds the -ConvertExternalSources invocation, optionally runs it
// through a launcher such as wine, decodes the tool's console output from its
// legacy codepage, and classifies warning and error lines. Command execution
// sits behind the Executor interface so tests can script the output.
package wwise
