package guardrails

type ValidationResult struct {
	IsValid  bool   // true = allowed ; false = blocked
	Reason   string // Why the input was blocked
	Category string // "prompt_injection", "secret", "toxic", "off_topic", "pii"
	Method   string // "static" or "llm"
}

const (
	CategoryPromptInjection = "prompt_injection"
	CategorySecret          = "secret"
	CategorySafe            = "safe"

	MethodStatic = "static"
	MethodLLM    = "llm"
)
