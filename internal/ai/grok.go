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

const grokURL = "https://api.groq.com/openai/v1/chat/completions"

const systemPrompt = `You are a job applicant's writing assistant. You draft short, specific,
first-person answers for job application forms. Never invent credentials or experience
that is not in the provided background. Follow the length and tone constraints exactly.`

type grokClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGrokClient creates a Groq API client
func NewGrokClient(apiKey string) Client {
	return &grokClient{
		apiKey: apiKey,
		model:  "llama-3.3-70b-versatile", // Groq's fast Llama-3 model
		//last-resort bound, callers pass tighter per-call deadlines via ctx
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

type grokMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type grokRequest struct {
	Model       string        `json:"model"`
	Messages    []grokMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type grokResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt plus rendered constraints to Grok
func (c *grokClient) Generate(ctx context.Context, prompt string, constraints Constraints) (string, error) {
	reqBody := grokRequest{
		Model: c.model,
		Messages: []grokMessage{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: prompt + "\n\n" + constraints.render(),
			},
		},
		Temperature: 0.5,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal grok request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", grokURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("grok API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var grokResp grokResponse
	if err := json.Unmarshal(bodyBytes, &grokResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if grokResp.Error != nil {
		return "", fmt.Errorf("API error: %s", grokResp.Error.Message)
	}

	if len(grokResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from grok API")
	}

	return cleanMarkdown(grokResp.Choices[0].Message.Content), nil
}
