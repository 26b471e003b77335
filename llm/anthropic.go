package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clementus360/focusflow/telemetry"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	aiScope               = "clementus360/focusflow/ai"
)

// AnthropicGenerator calls the Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicGenerator(apiKey, model string, opts ...option.RequestOption) *AnthropicGenerator {
	if model == "" {
		model = DefaultAnthropicModel
	}
	aiMetricsOnce.Do(initAIMetrics)
	return &AnthropicGenerator{
		client: anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  anthropic.Model(model),
	}
}

// aiMetrics holds lazily-initialized OTel instruments for provider calls.
var aiMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

var aiMetricsOnce sync.Once

func initAIMetrics() {
	m := telemetry.Meter(aiScope)
	aiMetrics.inputTokens, _ = m.Int64Counter("focusflow.ai.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.outputTokens, _ = m.Int64Counter("focusflow.ai.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.duration, _ = m.Float64Histogram("focusflow.ai.request.duration",
		metric.WithDescription("Anthropic API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := telemetry.Tracer(aiScope).Start(ctx, "anthropic.messages.new")
	defer span.End()
	modelAttr := attribute.String("focusflow.ai.model", string(g.model))
	span.SetAttributes(modelAttr, attribute.String("focusflow.ai.operation", "breakdown"))

	t0 := time.Now()
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	ms := float64(time.Since(t0).Milliseconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if aiMetrics.inputTokens != nil {
		aiMetrics.inputTokens.Add(ctx, message.Usage.InputTokens, metric.WithAttributes(modelAttr))
		aiMetrics.outputTokens.Add(ctx, message.Usage.OutputTokens, metric.WithAttributes(modelAttr))
		aiMetrics.duration.Record(ctx, ms, metric.WithAttributes(modelAttr))
	}
	span.SetAttributes(
		attribute.Int64("focusflow.ai.input_tokens", message.Usage.InputTokens),
		attribute.Int64("focusflow.ai.output_tokens", message.Usage.OutputTokens),
	)

	if len(message.Content) == 0 {
		return "", fmt.Errorf("unexpected response format: no content blocks")
	}
	content := message.Content[0]
	if content.Type != "text" {
		return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
	}
	return content.Text, nil
}
