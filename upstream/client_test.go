package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
)

func testClient(url string) *Client {
	return &Client{
		BaseURL:     url,
		HTTP:        &http.Client{},
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		Timeout:     time.Second,
		Logger:      slog.New(slog.DiscardHandler),
		rng:         rand.New(rand.NewSource(1)),
	}
}

var words = PoemInputs{Verb: "wander", Adjective: "silver", Noun: "moon"}

func TestGeneratePoem(t *testing.T) {
	var got PoemInputs
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != generatePoemPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(PoemData{Title: "Moonlit", Poem: "silver moon, we wander", Inputs: got})
	}))
	defer srv.Close()

	poem, err := testClient(srv.URL).GeneratePoem(context.Background(), words)
	if err != nil {
		t.Fatalf("GeneratePoem: %v", err)
	}
	if got != words {
		t.Errorf("expected request %+v, got %+v", words, got)
	}
	if poem.Title != "Moonlit" || poem.Poem == "" {
		t.Errorf("unexpected poem %+v", poem)
	}
}

func TestAnalyzeTheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "stars at night" {
			t.Errorf("expected poem text, got %q", req.Text)
		}
		json.NewEncoder(w).Encode(ThemeAnalysis{Theme: "galaxy", Mood: "mystical", Intensity: "high", Confidence: 0.9})
	}))
	defer srv.Close()

	a, err := testClient(srv.URL).AnalyzeTheme(context.Background(), "stars at night")
	if err != nil {
		t.Fatalf("AnalyzeTheme: %v", err)
	}
	tc, ok := a.ThemeConfig()
	if !ok {
		t.Fatal("expected known theme")
	}
	if tc.Theme != components.ThemeGalaxy || tc.Mood != components.MoodMystical || tc.Intensity != components.IntensityHigh {
		t.Errorf("unexpected triple %v", tc)
	}
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   Kind
		hits   int32
	}{
		{"bad request", http.StatusBadRequest, KindValidation, 1},
		{"unprocessable", http.StatusUnprocessableEntity, KindValidation, 1},
		{"rate limited", http.StatusTooManyRequests, KindRateLimit, 1},
		{"server error", http.StatusInternalServerError, KindNetwork, 4},
		{"bad gateway", http.StatusBadGateway, KindNetwork, 4},
		{"gateway timeout", http.StatusGatewayTimeout, KindTimeout, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).GeneratePoem(context.Background(), words)

			var ue *Error
			if !errors.As(err, &ue) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if ue.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, ue.Kind)
			}
			if ue.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, ue.Status)
			}
			if ue.Message != "nope" {
				t.Errorf("expected message from body, got %q", ue.Message)
			}
			if got := hits.Load(); got != tt.hits {
				t.Errorf("expected %d requests, got %d", tt.hits, got)
			}
		})
	}
}

func TestRetryRecovers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(PoemData{Poem: "third time"})
	}))
	defer srv.Close()

	poem, err := testClient(srv.URL).GeneratePoem(context.Background(), words)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if poem.Poem != "third time" {
		t.Errorf("unexpected poem %q", poem.Poem)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestNetworkErrorRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(url).AnalyzeTheme(context.Background(), "anything")
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestAttemptTimeout(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.Timeout = 20 * time.Millisecond
	c.MaxRetries = 1

	_, err := c.GeneratePoem(context.Background(), words)
	if KindOf(err) != KindTimeout {
		t.Errorf("expected timeout error, got %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.BaseBackoff = 50 * time.Millisecond
	c.MaxBackoff = time.Second

	_, err := c.GeneratePoem(ctx, words)
	if KindOf(err) != KindCanceled {
		t.Errorf("expected cancelled error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected error to wrap context.Canceled, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestLocalValidation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	c := testClient(srv.URL)

	_, err := c.GeneratePoem(context.Background(), PoemInputs{Verb: "run", Noun: " "})
	var ue *Error
	if !errors.As(err, &ue) || ue.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ue.Message != "missing adjective, noun" {
		t.Errorf("unexpected message %q", ue.Message)
	}

	if _, err := c.AnalyzeTheme(context.Background(), "   "); KindOf(err) != KindValidation {
		t.Errorf("expected validation error for empty text, got %v", err)
	}
	if hits.Load() != 0 {
		t.Error("expected no requests for invalid input")
	}
}

func TestBackoff(t *testing.T) {
	c := &Client{BaseBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, rng: rand.New(rand.NewSource(3))}

	tests := []struct {
		attempt  int
		min, max time.Duration
	}{
		{0, 100 * time.Millisecond, 200 * time.Millisecond},
		{1, 200 * time.Millisecond, 300 * time.Millisecond},
		{2, 400 * time.Millisecond, 500 * time.Millisecond},
		{5, time.Second, time.Second},
	}
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			d := c.backoff(tt.attempt)
			if d < tt.min || d > tt.max {
				t.Errorf("attempt %d: expected backoff in [%v, %v], got %v", tt.attempt, tt.min, tt.max, d)
			}
		}
	}
}

func TestThemeConfigMapping(t *testing.T) {
	tests := []struct {
		name string
		in   ThemeAnalysis
		ok   bool
		want components.ThemeConfig
	}{
		{
			name: "known",
			in:   ThemeAnalysis{Theme: "Rain", Mood: "melancholic", Intensity: "low"},
			ok:   true,
			want: components.ThemeConfig{Theme: components.ThemeRain, Mood: components.MoodMelancholic, Intensity: components.IntensityLow},
		},
		{
			name: "unknown intensity",
			in:   ThemeAnalysis{Theme: "petals", Mood: "romantic", Intensity: "extreme"},
			ok:   true,
			want: components.ThemeConfig{Theme: components.ThemePetals, Mood: components.MoodRomantic, Intensity: components.IntensityMedium},
		},
		{name: "unknown theme", in: ThemeAnalysis{Theme: "lava", Mood: "joyful"}},
		{name: "unknown mood", in: ThemeAnalysis{Theme: "snow", Mood: "grumpy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.ThemeConfig()
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	for _, k := range []Kind{KindNetwork, KindTimeout, KindValidation, KindRateLimit, KindCanceled} {
		if msg := (&Error{Kind: k}).UserMessage(); msg == "" {
			t.Errorf("expected message for %s", k)
		}
	}
	if (&Error{Kind: KindValidation}).Retryable() || (&Error{Kind: KindRateLimit}).Retryable() {
		t.Error("expected validation and rate limit errors not to be retryable")
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.Default()
	c := NewClient(cfg)

	if c.BaseURL != cfg.Upstream.BaseURL || c.MaxRetries != 3 {
		t.Errorf("unexpected client %+v", c)
	}
	if c.Timeout != 30*time.Second || c.BaseBackoff != 500*time.Millisecond {
		t.Errorf("unexpected durations timeout=%v base=%v", c.Timeout, c.BaseBackoff)
	}
}
