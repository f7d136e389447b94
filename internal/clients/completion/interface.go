package completion

//go:generate mockgen -destination=mock/mock_client.go -package=mockcompletion . Client

import "context"

// Options tunes a single completion request
type Options struct {
	// MaxOutputTokens caps the length of the generated text
	MaxOutputTokens int32

	// Temperature controls sampling randomness
	Temperature float32

	// SystemInstruction is an optional persona/instruction sent alongside the prompt
	SystemInstruction string
}

// Client turns a prompt into free-form text
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}
