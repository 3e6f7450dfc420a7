package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/invopop/jsonschema"
	log "github.com/sirupsen/logrus"
)

const (
	// Gemini API base url
	GEMINI_API_URL = "https://generativelanguage.googleapis.com/v1beta/models/"
)

type GeminiRequest struct {
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text,omitempty"`
}

type GenerationConfig struct {
	ResponseMimeType   string             `json:"responseMimeType,omitempty"`
	ResponseJsonSchema *jsonschema.Schema `json:"responseJsonSchema,omitempty"`
	Temperature        float64            `json:"temperature"` // Higher = more creative
	MaxOutputTokens    int                `json:"maxOutputTokens,omitempty"`
}

type GeminiResponse struct {
	PromptFeedback PromptFeedback `json:"promptFeedback"`
	Candidates     []Candidate    `json:"candidates"`
}

type Candidate struct {
	Content       Content        `json:"content"`
	FinishReason  string         `json:"finishReason"`
	Index         int            `json:"index"`
	SafetyRatings []SafetyRating `json:"safetyRatings"`
}

type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
}

type PromptFeedback struct {
	BlockReason   string         `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

// Text joins the text parts of the first candidate.
func (r *GeminiResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	texts := make([]string, 0, len(r.Candidates[0].Content.Parts))
	for _, p := range r.Candidates[0].Content.Parts {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "\n")
}

// GeminiClient calls the generateContent endpoint. The api key travels in the url.
type GeminiClient struct {
	BaseURL    string // defaults to GEMINI_API_URL
	APIKey     string
	HTTPClient *http.Client
}

func (c *GeminiClient) Generate(ctx context.Context, model string, reqBody *GeminiRequest) (*GeminiResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = GEMINI_API_URL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	endpoint := fmt.Sprintf("%s%s:generateContent?key=%s", baseURL, url.PathEscape(model), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	log.Debugf("gemini request model=%s size=%d", model, len(jsonData))
	resp, err := client.Do(req)
	if err != nil {
		return nil, &ApiError{Model: model, Message: "request failed", Err: redactKey(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &ApiError{Model: model, Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	var apiResp GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &ApiError{Model: model, Status: resp.StatusCode, Message: "failed to decode response", Err: err, Retryable: true}
	}
	if apiResp.PromptFeedback.BlockReason != "" {
		return nil, &ApiError{Model: model, Status: resp.StatusCode, Message: fmt.Sprintf("blocked: %s", apiResp.PromptFeedback.BlockReason)}
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, &ApiError{Model: model, Status: resp.StatusCode, Message: "no contents returned by Gemini", Retryable: true}
	}
	return &apiResp, nil
}

// url.Error includes the request url, which carries the key.
func redactKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		endpoint, _, _ := strings.Cut(urlErr.URL, "?")
		return fmt.Errorf("%s %s: %w", urlErr.Op, endpoint, urlErr.Err)
	}
	return err
}
