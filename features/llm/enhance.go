package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/laras/constants"
)

var ErrNotConfigured = errors.New("enhancement is not configured: set a relay url or a Gemini api key")

type Mode string

const (
	ModeProxy  Mode = "proxy"
	ModeDirect Mode = "direct"
)

// Model name recorded in the attempt trail of a relay call that did not report its own attempts.
const PROXY_MODEL = "proxy"

type Config struct {
	ProxyURL     string // relay endpoint. Takes precedence over APIKey
	APIKey       string // Gemini api key
	BaseURL      string // Gemini api base url, defaults to GEMINI_API_URL
	Models       []string
	Timeout      time.Duration // bounds the whole Enhance call. Default constants.DEFAULT_TIMEOUT
	Temperature  float64
	SystemPrompt string             // defaults to SystemPrompt
	Schema       *jsonschema.Schema // optional responseJsonSchema for direct mode
	HTTPClient   *http.Client
}

type Enhancer struct {
	cfg    Config
	mode   Mode
	gemini *GeminiClient
}

// Result of a successful enhancement.
type Result struct {
	Document map[string]any
	Raw      string // model / relay text before sanitizing
	Attempts []Attempt
	Model    string // the model that produced Document
}

// EnhanceError carries the attempt trail of a failed enhancement.
type EnhanceError struct {
	Attempts []Attempt
	Err      error
}

func (e *EnhanceError) Error() string {
	if len(e.Attempts) <= 1 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (after %d attempts)", e.Err, len(e.Attempts))
}

func (e *EnhanceError) Unwrap() error {
	return e.Err
}

// Request body of the relay.
type ProxyRequest struct {
	Instruction string `json:"instruction"`
	Draft       any    `json:"draft"`
}

// Response body of the relay. Enhanced is either a JSON string (model text) or an object.
type ProxyResponse struct {
	Enhanced json.RawMessage `json:"enhanced,omitempty"`
	Attempts []Attempt       `json:"attempts,omitempty"`
	Model    string          `json:"model,omitempty"`
	Error    string          `json:"error,omitempty"`
	Details  string          `json:"details,omitempty"`
}

// NewEnhancer selects proxy mode when cfg.ProxyURL is set, direct mode when cfg.APIKey is set,
// and fails with ErrNotConfigured otherwise.
func NewEnhancer(cfg Config) (*Enhancer, error) {
	cfg.ProxyURL = strings.TrimSpace(cfg.ProxyURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DEFAULT_TIMEOUT
	}
	if len(cfg.Models) == 0 {
		cfg.Models = append([]string(nil), constants.DEFAULT_MODELS...)
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = SystemPrompt
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	e := &Enhancer{cfg: cfg}
	switch {
	case cfg.ProxyURL != "":
		e.mode = ModeProxy
	case cfg.APIKey != "":
		e.mode = ModeDirect
		e.gemini = &GeminiClient{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, HTTPClient: cfg.HTTPClient}
	default:
		return nil, ErrNotConfigured
	}
	return e, nil
}

func (e *Enhancer) Mode() Mode {
	return e.mode
}

// Enhance sends instruction and draft to the model and returns the parsed document.
// Errors are *EnhanceError carrying the attempts made.
func (e *Enhancer) Enhance(ctx context.Context, instruction string, draft any) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	log.Debugf("enhance mode=%s timeout=%v", e.mode, e.cfg.Timeout)
	if e.mode == ModeProxy {
		return e.enhanceProxy(ctx, instruction, draft)
	}
	return e.enhanceDirect(ctx, instruction, draft)
}

func (e *Enhancer) enhanceDirect(ctx context.Context, instruction string, draft any) (*Result, error) {
	draftJson, err := json.Marshal(draft)
	if err != nil {
		return nil, &EnhanceError{Err: fmt.Errorf("failed to marshal draft: %w", err)}
	}
	req := &GeminiRequest{
		Contents: []Content{{
			Role: "user",
			Parts: []Part{
				{Text: e.cfg.SystemPrompt},
				{Text: "Instruction: " + instruction},
				{Text: "Draft:\n" + string(draftJson)},
			},
		}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType:   constants.MIME_JSON,
			ResponseJsonSchema: e.cfg.Schema,
			Temperature:        e.cfg.Temperature,
		},
	}
	var raw, model string
	policy := FallbackPolicy{Models: e.cfg.Models}
	attempts, err := policy.Run(ctx, func(ctx context.Context, m string) error {
		resp, err := e.gemini.Generate(ctx, m, req)
		if err != nil {
			return err
		}
		raw, model = resp.Text(), m
		return nil
	})
	if err != nil {
		return nil, &EnhanceError{Attempts: attempts, Err: err}
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, &EnhanceError{Attempts: attempts, Err: err}
	}
	log.Infof("enhanced by %s (%d attempts)", model, len(attempts))
	return &Result{Document: doc, Raw: raw, Attempts: attempts, Model: model}, nil
}

func (e *Enhancer) enhanceProxy(ctx context.Context, instruction string, draft any) (*Result, error) {
	attempt := Attempt{Model: PROXY_MODEL}
	fail := func(err error) (*Result, error) {
		attempt.Err = err.Error()
		attempt.Status = StatusOf(err)
		return nil, &EnhanceError{Attempts: []Attempt{attempt}, Err: err}
	}
	body, err := json.Marshal(ProxyRequest{Instruction: instruction, Draft: draft})
	if err != nil {
		return fail(fmt.Errorf("failed to marshal draft: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.ProxyURL, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", constants.MIME_JSON)
	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return fail(&ApiError{Model: PROXY_MODEL, Message: "relay request failed", Err: err})
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("failed to read relay response: %w", err))
	}

	var envelope ProxyResponse
	// a bare document is not an envelope; decode errors just mean "no envelope fields"
	_ = json.Unmarshal(respBody, &envelope)
	if resp.StatusCode != http.StatusOK {
		msg := envelope.Error
		if envelope.Details != "" {
			msg += ": " + envelope.Details
		}
		apiErr := &ApiError{Model: PROXY_MODEL, Status: resp.StatusCode, Message: msg, Body: string(respBody)}
		if len(envelope.Attempts) > 0 {
			return nil, &EnhanceError{Attempts: envelope.Attempts, Err: apiErr}
		}
		return fail(apiErr)
	}

	raw := string(respBody)
	if len(envelope.Enhanced) > 0 && string(envelope.Enhanced) != constants.NULL {
		var text string
		if err := json.Unmarshal(envelope.Enhanced, &text); err == nil {
			raw = text
		} else {
			raw = string(envelope.Enhanced)
		}
	} else {
		// bare document
		envelope = ProxyResponse{}
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return fail(err)
	}
	attempts := envelope.Attempts
	if len(attempts) == 0 {
		attempt.Success = true
		attempts = []Attempt{attempt}
	}
	model := envelope.Model
	if model == "" {
		model = PROXY_MODEL
	}
	return &Result{Document: doc, Raw: raw, Attempts: attempts, Model: model}, nil
}
