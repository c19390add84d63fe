// Package orchestrator drives a generation run: headers are loaded and
// parsed, wrappers derived, every registered renderer invoked, and the
// resulting artifacts persisted by a Writer that keeps a digest manifest so
// unchanged files are left alone and hand edits are not silently lost.
package orchestrator
