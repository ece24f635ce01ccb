package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

type OpenAIClient struct {
	APIKey string
	Model  string

	httpClient *http.Client
}

func New(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		APIKey: apiKey,
		Model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EnhanceText sends the user's draft reply through the completions API and
// returns the polished version.
func (c *OpenAIClient) EnhanceText(ctx context.Context, businessName, category, text string) (string, error) {
	payload := map[string]any{
		"model": c.Model,
		"messages": []chatMessage{
			{Role: "system", Content: enhanceSystemPrompt},
			{Role: "user", Content: BuildEnhancePrompt(businessName, category, text)},
		},
		"temperature": 0.4,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionsURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai status %d: %s", res.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("model did not return text")
	}

	return parsed.Choices[0].Message.Content, nil
}
