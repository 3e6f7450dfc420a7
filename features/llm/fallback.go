package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ErrFallbackExhausted = errors.New("all models in the fallback chain are rate limited")

// Attempt is one model call of a fallback run.
type Attempt struct {
	Model    string `json:"model"`
	Status   int    `json:"status,omitempty"`
	Switched bool   `json:"switched"`
	Reason   string `json:"reason,omitempty"`
	Success  bool   `json:"success"`
	Err      string `json:"error,omitempty"`
}

func (a Attempt) String() string {
	switch {
	case a.Success:
		return fmt.Sprintf("%s: ok", a.Model)
	case a.Switched:
		return fmt.Sprintf("%s: failed (%s), switched to next model", a.Model, a.Reason)
	default:
		return fmt.Sprintf("%s: failed: %s", a.Model, a.Err)
	}
}

// FallbackPolicy tries Models in order. Only a rate limit (HTTP 429) advances to the
// next model; any other failure stops the run.
type FallbackPolicy struct {
	Models []string
}

// Run calls fn with each model until one succeeds or the policy stops.
// The returned attempts list every call made, also on error.
func (p FallbackPolicy) Run(ctx context.Context, fn func(ctx context.Context, model string) error) ([]Attempt, error) {
	if len(p.Models) == 0 {
		return nil, fmt.Errorf("empty model fallback chain")
	}
	var attempts []Attempt
	var lastErr error
	for i, model := range p.Models {
		if err := ctx.Err(); err != nil {
			return attempts, err
		}
		err := fn(ctx, model)
		attempt := Attempt{Model: model}
		if err == nil {
			attempt.Success = true
			attempts = append(attempts, attempt)
			return attempts, nil
		}
		attempt.Err = err.Error()
		attempt.Status = StatusOf(err)
		if attempt.Status != http.StatusTooManyRequests {
			attempts = append(attempts, attempt)
			return attempts, err
		}
		attempt.Reason = "429"
		lastErr = err
		if i < len(p.Models)-1 {
			attempt.Switched = true
			log.Warnf("model %s failed (429), switched to %s", model, p.Models[i+1])
		}
		attempts = append(attempts, attempt)
	}
	return attempts, fmt.Errorf("%w: %w", ErrFallbackExhausted, lastErr)
}
