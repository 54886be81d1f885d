package domain

import "context"

// Completer is the model-service boundary: send an instruction prompt,
// receive the raw text reply. Implementations live in the adapter layer.
type Completer interface {
	// Complete sends a prompt to the completion service and returns its raw
	// reply. Transport failures come back as *ExtractionError with Network
	// set so callers can tell "service down" from "garbage reply".
	Complete(ctx context.Context, prompt string) (string, error)
}
