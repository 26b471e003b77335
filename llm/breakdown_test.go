package llm

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"clementus360/focusflow/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator replays scripted answers, one per call.
type fakeGenerator struct {
	calls   atomic.Int32
	answers []func(ctx context.Context) (string, error)
	prompt  string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	n := int(f.calls.Add(1)) - 1
	f.prompt = prompt
	if n >= len(f.answers) {
		n = len(f.answers) - 1
	}
	return f.answers[n](ctx)
}

func answer(text string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return text, nil }
}

func fail(err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return "", err }
}

func testOptions() BreakdownOptions {
	return BreakdownOptions{Timeout: time.Second, MaxRetries: 2, InitialBackoff: time.Millisecond}
}

func request(title string, est int) types.BreakdownRequest {
	return types.BreakdownRequest{TaskTitle: title, EstimatedMinutes: &est}
}

func TestBreakdownWithoutProviderIsMock(t *testing.T) {
	b := NewBreakdowner(nil, testOptions())

	out := b.Breakdown(context.Background(), request("Taxes", 60))
	assert.Equal(t, types.SourceMock, out.Source)
	require.Len(t, out.Subtasks, 3)
	assert.Equal(t, 10, out.Subtasks[0].EstimatedMinutes)
	assert.Equal(t, 40, out.Subtasks[1].EstimatedMinutes)
	assert.Equal(t, 10, out.Subtasks[2].EstimatedMinutes)
	assert.Equal(t, 60, out.TotalEstimatedMinutes)
	assert.Contains(t, out.Subtasks[0].Title, "Taxes")
}

func TestMockAndFallbackFloors(t *testing.T) {
	mock := MockBreakdown(types.BreakdownRequest{TaskTitle: "x"})
	assert.Equal(t, 30, mock.TotalEstimatedMinutes)
	assert.Equal(t, 15, mock.Subtasks[1].EstimatedMinutes)

	fallback := FallbackBreakdown(types.BreakdownRequest{TaskTitle: "x"})
	assert.Equal(t, types.SourceFallback, fallback.Source)
	assert.Equal(t, 30, fallback.TotalEstimatedMinutes)
	assert.Equal(t, 20, fallback.Subtasks[1].EstimatedMinutes)

	fallback = FallbackBreakdown(request("x", 12))
	assert.Equal(t, 10, fallback.Subtasks[1].EstimatedMinutes)
	assert.Equal(t, 5, fallback.Subtasks[0].EstimatedMinutes)
	assert.Equal(t, 5, fallback.Subtasks[2].EstimatedMinutes)
}

func TestBreakdownUsesModelAnswer(t *testing.T) {
	gen := &fakeGenerator{answers: []func(context.Context) (string, error){answer("```json\n" + validBreakdown + "\n```")}}
	b := NewBreakdowner(gen, testOptions())

	out := b.Breakdown(context.Background(), request("Write report", 30))
	assert.Equal(t, types.SourceAI, out.Source)
	require.Len(t, out.Subtasks, 2)
	assert.Equal(t, "low", out.Subtasks[0].EnergyLevel)
	assert.Contains(t, gen.prompt, "Write report")
}

func TestBreakdownFallsBackOnUnparsableAnswer(t *testing.T) {
	gen := &fakeGenerator{answers: []func(context.Context) (string, error){answer("I'd rather not.")}}
	b := NewBreakdowner(gen, testOptions())

	out := b.Breakdown(context.Background(), request("x", 30))
	assert.Equal(t, types.SourceFallback, out.Source)
	assert.EqualValues(t, 1, gen.calls.Load())
}

func TestBreakdownRetriesTransientErrors(t *testing.T) {
	gen := &fakeGenerator{answers: []func(context.Context) (string, error){
		fail(&StatusError{Provider: Gemini, StatusCode: 503}),
		answer(validBreakdown),
	}}
	b := NewBreakdowner(gen, testOptions())

	out := b.Breakdown(context.Background(), request("x", 30))
	assert.Equal(t, types.SourceAI, out.Source)
	assert.EqualValues(t, 2, gen.calls.Load())
}

func TestBreakdownDoesNotRetryPermanentErrors(t *testing.T) {
	gen := &fakeGenerator{answers: []func(context.Context) (string, error){
		fail(&StatusError{Provider: OpenAI, StatusCode: 401}),
		answer(validBreakdown),
	}}
	b := NewBreakdowner(gen, testOptions())

	out := b.Breakdown(context.Background(), request("x", 30))
	assert.Equal(t, types.SourceFallback, out.Source)
	assert.EqualValues(t, 1, gen.calls.Load())
}

func TestBreakdownGivesUpAfterMaxRetries(t *testing.T) {
	gen := &fakeGenerator{answers: []func(context.Context) (string, error){
		fail(&StatusError{Provider: Gemini, StatusCode: 429}),
	}}
	b := NewBreakdowner(gen, testOptions())

	out := b.Breakdown(context.Background(), request("x", 30))
	assert.Equal(t, types.SourceFallback, out.Source)
	assert.EqualValues(t, 3, gen.calls.Load())
}

func TestBreakdownFallsBackOnTimeout(t *testing.T) {
	gen := &fakeGenerator{answers: []func(context.Context) (string, error){
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}}
	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond
	b := NewBreakdowner(gen, opts)

	start := time.Now()
	out := b.Breakdown(context.Background(), request("x", 30))
	assert.Equal(t, types.SourceFallback, out.Source)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(nil))
	assert.False(t, isRetryable(context.Canceled))
	assert.False(t, isRetryable(context.DeadlineExceeded))
	assert.False(t, isRetryable(errors.New("boom")))
	assert.True(t, isRetryable(&StatusError{StatusCode: 500}))
	assert.True(t, isRetryable(&StatusError{StatusCode: 429}))
	assert.False(t, isRetryable(&StatusError{StatusCode: 400}))
}

func TestTrimRequestForTokens(t *testing.T) {
	long := strings.Repeat("context ", 3000)
	desc := "short description"
	req := types.BreakdownRequest{TaskTitle: "x", Context: &long, TaskDescription: &desc}

	trimmed := TrimRequestForTokens(req, maxPromptTokens)
	prompt, err := BuildBreakdownPrompt(trimmed)
	require.NoError(t, err)
	assert.LessOrEqual(t, EstimateTokens(prompt), maxPromptTokens)
	assert.Equal(t, desc, *trimmed.TaskDescription)
	assert.Len(t, long, 24000, "input must not be modified")
}

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator(ProviderConfig{Provider: None})
	require.NoError(t, err)
	assert.Nil(t, gen)

	_, err = NewGenerator(ProviderConfig{Provider: Anthropic})
	assert.ErrorIs(t, err, ErrAPIKeyRequired)

	_, err = NewGenerator(ProviderConfig{Provider: "llama"})
	assert.Error(t, err)

	gen, err = NewGenerator(ProviderConfig{Provider: Gemini, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiGenerator{}, gen)
}
