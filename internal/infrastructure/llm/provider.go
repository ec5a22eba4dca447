// Package llm adapts external text-generation APIs to the TextGenerator
// port. One provider is active at a time, selected by configuration.
package llm

import "errors"

// ErrProvider marks transport, auth or quota failures from a provider.
// Callers treat it as fatal for the triggering command; work already
// persisted before the failure stays intact.
var ErrProvider = errors.New("text provider failure")
