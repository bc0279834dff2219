package clients

import (
	"context"
	"errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	gobreaker "github.com/sony/gobreaker/v2"
	"strings"
	"time"
	"tourvisto/internal/providers"
	"tourvisto/internal/structures"
)

type GenerationClientInterface interface {
	// Generate sends a single prompt and returns the model's text answer.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationClient talks to any OpenAI-compatible chat completion endpoint.
// The default base URL is Gemini's compatibility layer.
type GenerationClient struct {
	client  openai.Client
	model   string
	cb      *gobreaker.CircuitBreaker[string]
	metrics providers.MetricsProviderInterface
}

func (gc *GenerationClient) Generate(ctx context.Context, prompt string) (string, error) {
	return execute(gc.cb, func() (string, error) {
		start := time.Now()
		defer func() { gc.metrics.ObserveUpstreamDuration("generation", time.Since(start)) }()

		resp, err := gc.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(gc.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return "", errors.New("empty response from generation service")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

func NewGenerationClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) GenerationClientInterface {
	if conf.Generation.APIKey == "" {
		logger.Warnf(providers.TypeApp, "generation.apiKey not set, trip generation will fail")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(conf.Generation.APIKey)),
		option.WithMaxRetries(0),
	}
	if conf.Generation.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(conf.Generation.BaseURL))
	}
	if conf.Generation.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(conf.Generation.Timeout))
	}

	return &GenerationClient{
		client:  openai.NewClient(opts...),
		model:   conf.Generation.Model,
		cb:      newBreaker[string]("generation", logger, metrics),
		metrics: metrics,
	}
}
