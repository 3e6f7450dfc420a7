package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sagan/laras/features/llm"
)

const requestBody = `{"instruction":"make it epic","draft":{"title":"Kancil","scenes":[]}}`

func newRelay(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func post(t *testing.T, url, body string) (int, Response) {
	t.Helper()
	resp, err := http.Post(url+PATH_PROXY, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var r Response
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("response %q: %v", data, err)
	}
	return resp.StatusCode, r
}

// geminiUpstream answers 429 for rateLimited models and text for the others.
func geminiUpstream(t *testing.T, text string, rateLimited ...string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ":generateContent")
		for _, m := range rateLimited {
			if m == model {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
		}
		json.NewEncoder(w).Encode(llm.GeminiResponse{Candidates: []llm.Candidate{{
			Content: llm.Content{Parts: []llm.Part{{Text: text}}},
		}}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMethodNotAllowed(t *testing.T) {
	_, srv := newRelay(t, Config{APIKey: "k"})
	resp, err := http.Get(srv.URL + PATH_PROXY)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestNotConfigured(t *testing.T) {
	_, srv := newRelay(t, Config{})
	code, resp := post(t, srv.URL, requestBody)
	if code != http.StatusInternalServerError || resp.Error == "" {
		t.Errorf("status = %d, resp = %+v", code, resp)
	}
}

func TestInvalidBody(t *testing.T) {
	_, srv := newRelay(t, Config{APIKey: "k"})
	code, resp := post(t, srv.URL, "{not json")
	if code != http.StatusBadRequest || resp.Error == "" {
		t.Errorf("status = %d, resp = %+v", code, resp)
	}
}

func TestGeminiMode(t *testing.T) {
	upstream := geminiUpstream(t, "```json\n{\"title\":\"Kancil the Brave\",}\n```", "model-a")
	s, srv := newRelay(t, Config{APIKey: "k", GeminiURL: upstream.URL, Models: []string{"model-a", "model-b"}})
	code, resp := post(t, srv.URL, requestBody)
	if code != http.StatusOK {
		t.Fatalf("status = %d, resp = %+v", code, resp)
	}
	doc, ok := resp.Enhanced.(map[string]any)
	if !ok || doc["title"] != "Kancil the Brave" {
		t.Errorf("enhanced = %#v", resp.Enhanced)
	}
	if resp.Model != "model-b" || len(resp.Attempts) != 2 || !resp.Attempts[0].Switched {
		t.Errorf("model = %s, attempts = %+v", resp.Model, resp.Attempts)
	}
	if got := testutil.ToFloat64(s.metrics.attempts.WithLabelValues("model-a", OutcomeRateLimited)); got != 1 {
		t.Errorf("rate limited attempts metric = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.requests.WithLabelValues("200")); got != 1 {
		t.Errorf("requests metric = %v, want 1", got)
	}
}

func TestGeminiModeExhausted(t *testing.T) {
	upstream := geminiUpstream(t, "{}", "model-a", "model-b")
	_, srv := newRelay(t, Config{APIKey: "k", GeminiURL: upstream.URL, Models: []string{"model-a", "model-b"}})
	code, resp := post(t, srv.URL, requestBody)
	if code != http.StatusTooManyRequests || len(resp.Attempts) != 2 {
		t.Errorf("status = %d, resp = %+v", code, resp)
	}
}

func TestOpenAIMode(t *testing.T) {
	var got llm.OpenAIChatRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, `{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"{\"title\":\"X\"}"}}]}`)
	}))
	defer upstream.Close()
	_, srv := newRelay(t, Config{APIKey: "k", UpstreamURL: upstream.URL + "/v1/", Models: []string{"m1"}})
	code, resp := post(t, srv.URL, requestBody)
	if code != http.StatusOK || resp.Enhanced != `{"title":"X"}` || resp.Model != "m1" {
		t.Fatalf("status = %d, resp = %+v", code, resp)
	}
	if got.Model != "m1" || len(got.Messages) != 3 || got.Messages[0].Role != "system" ||
		!strings.Contains(got.Messages[2].Content, `"title":"Kancil"`) {
		t.Errorf("upstream request = %+v", got)
	}
}

func TestOpenAIModeUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer upstream.Close()
	_, srv := newRelay(t, Config{APIKey: "k", UpstreamURL: upstream.URL, Models: []string{"m1", "m2"}})
	code, resp := post(t, srv.URL, requestBody)
	if code != http.StatusBadGateway || resp.Error != "Upstream error: 500" || len(resp.Attempts) != 1 {
		t.Errorf("status = %d, resp = %+v", code, resp)
	}
}

func TestEnhancerThroughRelay(t *testing.T) {
	upstream := geminiUpstream(t, `{"title":"Relayed","scenes":[]}`)
	_, srv := newRelay(t, Config{APIKey: "k", GeminiURL: upstream.URL, Models: []string{"model-a"}})
	enhancer, err := llm.NewEnhancer(llm.Config{ProxyURL: srv.URL + PATH_PROXY})
	if err != nil {
		t.Fatal(err)
	}
	result, err := enhancer.Enhance(context.Background(), "x", map[string]any{"title": "Draft"})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if result.Document["title"] != "Relayed" || result.Model != "model-a" || len(result.Attempts) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newRelay(t, Config{})
	post(t, srv.URL, requestBody)
	resp, err := http.Get(srv.URL + PATH_METRICS)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), MetricRequestsTotal+`{code="500"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
}
