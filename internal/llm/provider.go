package llm

import "context"

// Provider is a chat-completion endpoint scoped to a single model.
type Provider interface {
	GetModel() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type ProviderConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerSecond float64
	MaxAttempts       int
}
