package assistant

import "context"

// LLMRequest is a single stateless completion request.
type LLMRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

// LLMResponse carries the model's text output.
type LLMResponse struct {
	Text       string
	StopReason string
}

// LLMClient is a generative-model completion endpoint.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
