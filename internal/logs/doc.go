// Package logs finds and reads the JSON build logs written under log_dir.
//
// Build logs are named build-<date>-<time>-<id>.log, where id is the first
// eight characters of the build id. List returns them newest first, Find
// resolves a build id prefix, and Tail reads the last lines of one file with
// bounded memory. Records are rendered back into the console layout by
// Record.String.
package logs
