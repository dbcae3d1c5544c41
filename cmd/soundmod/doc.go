// Package main hosts the soundmod CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation and
// hands it to the internal packages: build runs the full pipeline, render and
// watch regenerate mod.xml from converted files, inspect and unused report on
// the descriptor and leftover files, check runs the preflight probes, and
// config scaffolds, validates or imports configuration files.
package main
