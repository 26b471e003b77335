package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	DefaultOpenAIModel = "gpt-3.5-turbo"
	openaiURL          = "https://api.openai.com/v1/chat/completions"
)

// OpenAIGenerator calls the chat completions REST endpoint.
type OpenAIGenerator struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{apiKey: apiKey, model: model, url: openaiURL, client: &http.Client{}}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.3,
		"max_tokens":  1024,
		"top_p":       0.8,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Provider: OpenAI, StatusCode: resp.StatusCode}
	}

	var res map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return extractTextFromOpenAIResponse(res)
}

func extractTextFromOpenAIResponse(res map[string]interface{}) (string, error) {
	choices, ok := res["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid choice format")
	}

	message, ok := choice["message"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("no message in choice")
	}

	content, ok := message["content"].(string)
	if !ok {
		return "", fmt.Errorf("no content in message")
	}

	return content, nil
}
