package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// OpenRouterProvider talks to any OpenAI-compatible chat-completions
// endpoint. The study routes all three models through OpenRouter.
type OpenRouterProvider struct {
	client      *openai.Client
	model       string
	limiter     *rate.Limiter
	maxAttempts int
}

func NewOpenRouterProvider(config ProviderConfig) *OpenRouterProvider {
	options := []option.RequestOption{option.WithBaseURL(config.BaseURL)}

	if config.APIKey == "" {
		log.Info("no API key configured, will try unauthenticated access")
	} else {
		options = append(options, option.WithAPIKey(config.APIKey))
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	client := openai.NewClient(options...)
	return &OpenRouterProvider{
		client:      &client,
		model:       config.Model,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		maxAttempts: attempts,
	}
}

func (p *OpenRouterProvider) GetModel() string {
	return p.model
}

// Generate sends a single user prompt and returns the raw completion
// text. Requests are paced by the provider limiter and retried a
// bounded number of times on transient failure.
func (p *OpenRouterProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}

		content, err := p.complete(ctx, prompt)
		if err == nil {
			return strings.TrimSpace(content), nil
		}
		lastErr = err

		if attempt < p.maxAttempts {
			log.WithError(err).WithField("model", p.model).
				Warnf("request failed, retrying (%d/%d)", attempt, p.maxAttempts)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("request failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func (p *OpenRouterProvider) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: p.model,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned in response")
	}

	return resp.Choices[0].Message.Content, nil
}
