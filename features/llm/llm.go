package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// error returned by online llm service provider
type ApiError struct {
	Model     string
	Message   string
	Body      string
	Status    int   // http status code
	Err       error // wrapped error
	Retryable bool  // busines logic defined retryable
}

func (a *ApiError) Error() string {
	msg := a.Message
	if msg == "" {
		msg = truncate(a.Body, 300)
	}
	if a.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, a.Err)
	}
	if a.Model != "" {
		return fmt.Sprintf("model %s: status=%d: %s", a.Model, a.Status, msg)
	}
	return fmt.Sprintf("status=%d: %s", a.Status, msg)
}

func (a *ApiError) Temporary() bool {
	return a.Retryable || a.Status == http.StatusTooManyRequests ||
		a.Status == http.StatusInternalServerError ||
		a.Status == http.StatusBadGateway ||
		a.Status == http.StatusServiceUnavailable ||
		a.Status == http.StatusGatewayTimeout ||
		(a.Err != nil && isTemporaryError(a.Err))
}

func (a *ApiError) Unwrap() error {
	return a.Err
}

// StatusOf returns the http status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func isTemporaryError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
