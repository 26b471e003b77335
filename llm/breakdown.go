package llm

import (
	"context"
	"strings"
	"time"

	"clementus360/focusflow/types"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	defaultEstimate   = 30
)

type BreakdownOptions struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	Logger         logrus.FieldLogger
}

// Breakdowner produces task breakdowns. It never returns an error: provider
// failures of any kind turn into the fallback plan.
type Breakdowner struct {
	gen            Generator
	timeout        time.Duration
	maxRetries     int
	initialBackoff time.Duration
	log            logrus.FieldLogger
}

// NewBreakdowner wraps gen; a nil gen serves the mock plan.
func NewBreakdowner(gen Generator, opts BreakdownOptions) *Breakdowner {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Breakdowner{
		gen:            gen,
		timeout:        opts.Timeout,
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
		log:            opts.Logger,
	}
}

func (b *Breakdowner) Breakdown(ctx context.Context, req types.BreakdownRequest) types.BreakdownResponse {
	if b.gen == nil {
		return MockBreakdown(req)
	}
	log := b.log.WithField("task_title", req.TaskTitle)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	prompt, err := BuildBreakdownPrompt(TrimRequestForTokens(req, maxPromptTokens))
	if err != nil {
		log.WithError(err).Error("Failed to build breakdown prompt")
		return FallbackBreakdown(req)
	}

	text, err := b.generate(ctx, prompt)
	if err != nil {
		log.WithError(err).Warn("AI breakdown failed, using fallback")
		return FallbackBreakdown(req)
	}

	out, err := parseBreakdown(text)
	if err != nil {
		log.WithError(err).WithField("response", text).Warn("Failed to parse AI breakdown, using fallback")
		return FallbackBreakdown(req)
	}
	return normalizeBreakdown(out)
}

func (b *Breakdowner) generate(ctx context.Context, prompt string) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = b.initialBackoff
	// The context deadline bounds the total time.
	bo.MaxElapsedTime = 0

	var text string
	err := backoff.Retry(func() error {
		out, err := b.gen.Generate(ctx, prompt)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			b.log.WithError(err).Debug("retrying AI request")
			return err
		}
		text = out
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(b.maxRetries)), ctx))
	return text, err
}

func normalizeBreakdown(b types.BreakdownResponse) types.BreakdownResponse {
	total := 0
	for i := range b.Subtasks {
		level := strings.ToLower(strings.TrimSpace(b.Subtasks[i].EnergyLevel))
		switch level {
		case "low", "medium", "high":
		default:
			level = "medium"
		}
		b.Subtasks[i].EnergyLevel = level
		total += b.Subtasks[i].EstimatedMinutes
	}
	if b.TotalEstimatedMinutes <= 0 {
		b.TotalEstimatedMinutes = total
	}
	b.Source = types.SourceAI
	return b
}

func estimateOf(req types.BreakdownRequest) int {
	if req.EstimatedMinutes != nil && *req.EstimatedMinutes > 0 {
		return *req.EstimatedMinutes
	}
	return defaultEstimate
}

// MockBreakdown is served when no provider is configured.
func MockBreakdown(req types.BreakdownRequest) types.BreakdownResponse {
	est := estimateOf(req)
	return types.BreakdownResponse{
		Subtasks: []types.BreakdownStep{
			{Title: "Step 1: Get started with " + req.TaskTitle, EstimatedMinutes: 10, EnergyLevel: "medium", Tips: "Just open the relevant app or document"},
			{Title: "Step 2: Work on the main part", EstimatedMinutes: max(15, est-20), EnergyLevel: "high", Tips: "Focus on progress, not perfection"},
			{Title: "Step 3: Review and wrap up", EstimatedMinutes: 10, EnergyLevel: "low", Tips: "Quick check and you're done!"},
		},
		TotalEstimatedMinutes: est,
		SuggestedApproach:     "Break it into small chunks. Start with just 5 minutes - you've got this!",
		MotivationTip:         "Remember: done is better than perfect. Every small step counts! 🎯",
		Source:                types.SourceMock,
	}
}

// FallbackBreakdown is served when the provider fails or times out.
func FallbackBreakdown(req types.BreakdownRequest) types.BreakdownResponse {
	est := estimateOf(req)
	return types.BreakdownResponse{
		Subtasks: []types.BreakdownStep{
			{Title: "Start: Open/prepare for " + req.TaskTitle, EstimatedMinutes: 5, EnergyLevel: "low", Tips: "Just get the materials ready"},
			{Title: "Do: Main work block", EstimatedMinutes: max(10, est-10), EnergyLevel: "medium", Tips: "Set a timer and focus"},
			{Title: "Finish: Quick review", EstimatedMinutes: 5, EnergyLevel: "low", Tips: "Good enough is good!"},
		},
		TotalEstimatedMinutes: est,
		SuggestedApproach:     "Start small, build momentum. You only need to do 5 minutes to start!",
		MotivationTip:         "The hardest part is starting. Once you begin, momentum takes over! 💪",
		Source:                types.SourceFallback,
	}
}
