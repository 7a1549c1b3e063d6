// File: services/intelligence/interface.go
package ai

import "context"

// CompletionClient is the single-shot text-completion capability consumed by
// the extraction and decision services. Implementations must honor ctx
// cancellation and deadlines; a deadline hit surfaces as the ctx error.
type CompletionClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
