// Package services defines shared utilities consumed by the build stages and
// the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp build IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (configuration, validation, external tool, I/O) so the CLI can pick an
//     exit code without string matching.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
