package llm

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// LLMResponse is the normalized completion returned by every provider adapter.
type LLMResponse struct {
	Content    string
	StopReason string
}

// ModelOptions controls how an agent calls the model.
type ModelOptions struct {
	MaxTokens   int
	Temperature float64
	Retry       bool
}

func DefaultModelOptions() ModelOptions {
	return ModelOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
		Retry:       true,
	}
}
