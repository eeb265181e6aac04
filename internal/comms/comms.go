// Package comms talks to the contest portal, which accepts a program in wire
// form and answers with another.
package comms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"icfp/internal/codec"
	"icfp/internal/util"
)

// EchoPrefix concatenates the string "echo " in front of the argument.
const EchoPrefix = "B. S%#(/} "

const ContentType = "text/icfp"

type Client struct {
	url         string
	headers     map[string]string
	minInterval time.Duration
	http        *http.Client

	mu   sync.Mutex
	last time.Time
}

func NewClient(cfg util.PortalConfig) *Client {
	url := cfg.URL
	if url == "" {
		url = util.DefaultPortalURL
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = util.DefaultTimeout
	}
	minInterval := cfg.MinInterval.Duration
	if minInterval < 0 {
		minInterval = 0
	}
	return &Client{
		url:         strings.TrimRight(url, "/") + "/communicate",
		headers:     cfg.Headers,
		minInterval: minInterval,
		http:        &http.Client{Timeout: timeout},
	}
}

// Communicate posts a wire program and returns the portal's reply. Calls are
// serialized and spaced at least the configured interval apart.
func (c *Client) Communicate(ctx context.Context, wire string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(wire))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", ContentType)

	slog.Debug("portal request", slog.String("url", c.url), slog.String("body", wire))
	resp, err := c.http.Do(req)
	c.last = time.Now()
	if err != nil {
		return "", fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read portal reply: %w", err)
	}
	slog.Debug("portal reply", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("portal returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.last.IsZero() {
		return nil
	}
	delay := c.minInterval - time.Since(c.last)
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendText sends human text as a string literal.
func (c *Client) SendText(ctx context.Context, text string) (string, error) {
	lit, err := codec.StringLiteral(text)
	if err != nil {
		return "", err
	}
	return c.Communicate(ctx, lit)
}

// Echo asks the portal to evaluate wire and prefix the result with "echo ".
func (c *Client) Echo(ctx context.Context, wire string) (string, error) {
	return c.Communicate(ctx, EchoPrefix+wire)
}
