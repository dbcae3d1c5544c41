// Package build runs the mod build pipeline.
//
// A build walks the source directory through a fixed sequence of stages:
// descriptor, version, rename, collect, convert, deploy, render, report and
// cleanup. Each stage runs under stageexec so its log lines carry the build id
// and stage name. The source directory is locked for the duration of a build.
//
// Render repeats only the matching and document steps against a directory
// that already holds converted files.
package build
