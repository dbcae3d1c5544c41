// Package preflight provides readiness checks for the filesystem paths and
// external programs a build depends on.
//
// The build pipeline calls RunAll before touching any file and aborts when a
// check fails. The "soundmod check" command renders the same results as a
// table.
package preflight
