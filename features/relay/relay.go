// Package relay is an HTTP relay that keeps the model api key on the server:
// clients POST {instruction, draft} to /api/ai-proxy and receive {enhanced}.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/llm"
)

const (
	PATH_PROXY   = "/api/ai-proxy"
	PATH_METRICS = "/metrics"
	PATH_HEALTH  = "/healthz"
)

type Config struct {
	// OpenAI compatible base url, e.g. "https://openrouter.ai/api/v1".
	// Empty: call Gemini directly.
	UpstreamURL string
	APIKey      string
	GeminiURL   string // Gemini api base url override
	Models      []string
	Timeout     time.Duration
	Temperature float64
	HTTPClient  *http.Client
}

type Server struct {
	cfg      Config
	metrics  *Metrics
	enhancer *llm.Enhancer    // Gemini mode
	upstream *llm.OpenAIClient // OpenAI compatible mode
	router   *gin.Engine
}

// New builds the relay. Metrics are registered with reg and served from it.
// A missing api key is not an error here: requests are answered with 500 until configured.
func New(cfg Config, reg *prometheus.Registry) (*Server, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DEFAULT_TIMEOUT
	}
	if len(cfg.Models) == 0 {
		cfg.Models = append([]string(nil), constants.DEFAULT_MODELS...)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	s := &Server{cfg: cfg, metrics: NewMetrics()}
	if err := s.metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	if cfg.APIKey != "" {
		if cfg.UpstreamURL != "" {
			s.upstream = &llm.OpenAIClient{BaseURL: cfg.UpstreamURL, APIKey: cfg.APIKey, HTTPClient: cfg.HTTPClient}
		} else {
			enhancer, err := llm.NewEnhancer(llm.Config{
				APIKey:      cfg.APIKey,
				BaseURL:     cfg.GeminiURL,
				Models:      cfg.Models,
				Timeout:     cfg.Timeout,
				Temperature: cfg.Temperature,
				HTTPClient:  cfg.HTTPClient,
			})
			if err != nil {
				return nil, err
			}
			s.enhancer = enhancer
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), s.observe)
	router.POST(PATH_PROXY, s.handleProxy)
	router.GET(PATH_HEALTH, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "configured": s.configured()})
	})
	router.GET(PATH_METRICS, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})
	s.router = router
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) configured() bool {
	return s.enhancer != nil || s.upstream != nil
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Infof("relay listening on %s (configured=%v)", addr, s.configured())
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Infof("relay shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	status := c.Writer.Status()
	if c.FullPath() != PATH_METRICS {
		s.metrics.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	}
	log.Debugf("%s %s %d %v", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
}

// Response body of the relay. Enhanced is the model text (OpenAI compatible upstream)
// or the parsed document (Gemini).
type Response struct {
	Enhanced any           `json:"enhanced,omitempty"`
	Model    string        `json:"model,omitempty"`
	Attempts []llm.Attempt `json:"attempts,omitempty"`
	Error    string        `json:"error,omitempty"`
	Details  string        `json:"details,omitempty"`
}

func (s *Server) handleProxy(c *gin.Context) {
	if !s.configured() {
		c.JSON(http.StatusInternalServerError, Response{Error: "Relay is not configured: missing upstream api key"})
		return
	}
	var req llm.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "Invalid request body", Details: err.Error()})
		return
	}
	start := time.Now()
	var resp Response
	var err error
	if s.upstream != nil {
		resp, err = s.chat(c.Request.Context(), req)
	} else {
		resp, err = s.enhance(c.Request.Context(), req)
	}
	s.metrics.duration.Observe(time.Since(start).Seconds())
	for _, a := range resp.Attempts {
		outcome := OutcomeError
		if a.Success {
			outcome = OutcomeSuccess
		} else if a.Status == http.StatusTooManyRequests {
			outcome = OutcomeRateLimited
		}
		s.metrics.attempts.WithLabelValues(a.Model, outcome).Inc()
	}
	if err != nil {
		status := llm.StatusOf(err)
		resp.Details = err.Error()
		var parseErr *llm.ParseError
		switch {
		case errors.As(err, &parseErr):
			resp.Error = "Upstream returned invalid JSON"
		case status != 0:
			resp.Error = fmt.Sprintf("Upstream error: %d", status)
		default:
			resp.Error = "Upstream request failed"
		}
		code := http.StatusBadGateway
		if errors.Is(err, llm.ErrFallbackExhausted) {
			code = http.StatusTooManyRequests
		}
		log.Warnf("relay: %v", err)
		c.JSON(code, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// enhance uses the Gemini enhancer, which sanitizes and parses the model output.
func (s *Server) enhance(ctx context.Context, req llm.ProxyRequest) (Response, error) {
	result, err := s.enhancer.Enhance(ctx, req.Instruction, req.Draft)
	if err != nil {
		var enhanceErr *llm.EnhanceError
		if errors.As(err, &enhanceErr) {
			return Response{Attempts: enhanceErr.Attempts}, err
		}
		return Response{}, err
	}
	return Response{Enhanced: result.Document, Model: result.Model, Attempts: result.Attempts}, nil
}

// chat calls the OpenAI compatible upstream and returns the raw model text.
// The caller sanitizes it.
func (s *Server) chat(ctx context.Context, req llm.ProxyRequest) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	draft, err := json.Marshal(req.Draft)
	if err != nil {
		return Response{}, err
	}
	var text, model string
	attempts, err := llm.FallbackPolicy{Models: s.cfg.Models}.Run(ctx, func(ctx context.Context, m string) error {
		resp, err := s.upstream.Chat(ctx, &llm.OpenAIChatRequest{
			Model:       m,
			Temperature: s.cfg.Temperature,
			Messages: []llm.OpenAIMessage{
				{Role: "system", Content: llm.SystemPrompt},
				{Role: "user", Content: "Instruction: " + req.Instruction},
				{Role: "user", Content: "Draft:\n" + string(draft)},
			},
		})
		if err != nil {
			return err
		}
		text, model = resp.Text(), m
		return nil
	})
	if err != nil {
		return Response{Attempts: attempts}, err
	}
	return Response{Enhanced: text, Model: model, Attempts: attempts}, nil
}
