package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// maxTextLen is the maximum text length, in runes, submitted for inference.
const maxTextLen = 512

// Result is the label and confidence returned by the inference service.
// Label is one of "Positive", "Negative", "Neutral".
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Client talks to an external FinBERT-style sentiment inference service.
//
// The service loads its model on first use, which is slow; Analyze triggers
// that warm-up lazily, exactly once per process when it succeeds, and shares
// the warmed session across all subsequent calls. A failed warm-up is
// retried on the next call rather than poisoning the client for good.
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger

	mu    sync.Mutex
	ready bool
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new sentiment inference client
func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: opts.Timeout},
		baseURL: opts.BaseURL,
		log:     log.With().Str("client", "sentiment").Logger(),
	}
}

// Analyze submits text for sentiment inference. Text longer than 512 runes
// is truncated before submission.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	if err := c.ensureReady(ctx); err != nil {
		return Result{}, errors.Wrap(err, "sentiment service not ready")
	}

	payload, err := json.Marshal(map[string]string{"text": Truncate(text, maxTextLen)})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, errors.Wrap(err, "sentiment request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, errors.Errorf("sentiment service returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, errors.Wrap(err, "parse sentiment response")
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return Result{}, errors.Errorf("sentiment confidence %v out of range", result.Confidence)
	}
	return result, nil
}

// ensureReady performs the one-time model warm-up. Calls are serialized so
// concurrent first users trigger a single warm-up request.
func (c *Client) ensureReady(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "warm-up failed")
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("warm-up returned status %d", resp.StatusCode)
	}

	c.ready = true
	c.log.Info().Dur("took", time.Since(started)).Msg("Sentiment service warmed up")
	return nil
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
