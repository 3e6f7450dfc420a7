package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =================================================================================
// OpenAI Compatible API Structures
// =================================================================================

const (
	// Default OpenAI Base URL
	OPENAI_API_URL = "https://api.openai.com/v1"
)

type OpenAIChatRequest struct {
	Model          string                `json:"model,omitempty"`
	Messages       []OpenAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *OpenAIResponseFormat `json:"response_format,omitempty"`
}

type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAI JSON Mode
type OpenAIResponseFormat struct {
	Type string `json:"type"` // "json_object"
}

type OpenAIResponse struct {
	ID      string         `json:"id"`
	Choices []OpenAIChoice `json:"choices"`
	// Output is returned by simple "generate" style gateways instead of choices.
	Output string       `json:"output,omitempty"`
	Error  *OpenAIError `json:"error,omitempty"` // Sometimes returned in 200 OK by proxies
}

type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// OpenAI specific error structure inside the JSON body
type OpenAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Text returns the generated content: the first choice, or Output.
func (r *OpenAIResponse) Text() string {
	if len(r.Choices) > 0 && r.Choices[0].Message.Content != "" {
		return r.Choices[0].Message.Content
	}
	return r.Output
}

// OpenAIClient calls an OpenAI compatible chat completions endpoint with bearer auth.
// BaseURL: e.g., "https://api.openai.com/v1" or "http://localhost:11434/v1"
type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func (c *OpenAIClient) Chat(ctx context.Context, reqBody *OpenAIChatRequest) (*OpenAIResponse, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = OPENAI_API_URL
	}
	// Handle trailing slash consistency
	endpoint := strings.TrimRight(baseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &ApiError{Model: reqBody.Model, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	// Read body to handle errors or decode
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle non-200 HTTP statuses
	if resp.StatusCode != http.StatusOK {
		return nil, &ApiError{
			Model:     reqBody.Model,
			Status:    resp.StatusCode,
			Body:      string(bodyBytes),
			Message:   fmt.Sprintf("upstream returned status %d", resp.StatusCode),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	var apiResp OpenAIResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, &ApiError{Model: reqBody.Model, Status: resp.StatusCode, Message: "failed to decode response", Err: err, Retryable: true}
	}

	// Handle logic-level errors (API returned 200 but body contains error)
	if apiResp.Error != nil {
		return nil, &ApiError{Model: reqBody.Model, Status: resp.StatusCode,
			Message: fmt.Sprintf("api error: %s", apiResp.Error.Message), Body: string(bodyBytes)}
	}
	if apiResp.Text() == "" {
		return nil, &ApiError{Model: reqBody.Model, Status: resp.StatusCode, Message: "no choices returned by API", Retryable: true}
	}
	return &apiResp, nil
}
