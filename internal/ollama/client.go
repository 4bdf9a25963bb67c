// Package ollama talks to a local Ollama-compatible /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrUnreachable means the model service could not be contacted at all.
	ErrUnreachable = errors.New("ollama: endpoint unreachable")
	// ErrUpstream covers bad statuses and malformed response bodies.
	ErrUpstream = errors.New("ollama: upstream error")
)

const DefaultEndpoint = "http://localhost:11434/api/generate"

type Config struct {
	Endpoint    string
	Model       string
	Temperature float64
	TopP        float64
	// Timeout of 0 leaves the request bounded only by its context.
	Timeout time.Duration
}

// Generation is one round trip to the model.
type Generation struct {
	Topic  string
	Prompt string
	Text   string // the "response" field of the last record
}

type Client struct {
	http *http.Client
	cfg  Config

	// PickTopic chooses the theme; replaced in tests.
	PickTopic func() string
}

func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		cfg:       cfg,
		PickTopic: RandomTopic,
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateRequest struct {
	Prompt  string          `json:"prompt"`
	Model   string          `json:"model"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

// Generate picks a topic, prompts the model once and returns its raw text.
func (c *Client) Generate(ctx context.Context) (Generation, error) {
	topic := c.PickTopic()
	prompt := BuildPrompt(topic)
	g := Generation{Topic: topic, Prompt: prompt}

	body, err := json.Marshal(generateRequest{
		Prompt:  prompt,
		Model:   c.cfg.Model,
		Stream:  false,
		Options: generateOptions{Temperature: c.cfg.Temperature, TopP: c.cfg.TopP},
	})
	if err != nil {
		return g, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return g, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return g, fmt.Errorf("%w: %w", ErrUpstream, ctxErr)
		}
		if isConnError(err) {
			return g, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return g, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return g, fmt.Errorf("%w: generate: %s", ErrUpstream, res.Status)
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return g, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	g.Text, err = ParseGenerateBody(string(raw))
	return g, err
}

// ParseGenerateBody reads the "response" field of the last newline-separated
// JSON record in body. A record without the field yields "{}".
func ParseGenerateBody(body string) (string, error) {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	last := lines[len(lines)-1]

	var rec struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal([]byte(last), &rec); err != nil {
		return "", fmt.Errorf("%w: decode last record: %v", ErrUpstream, err)
	}
	if rec.Response == nil {
		return "{}", nil
	}
	return *rec.Response, nil
}

// isConnError reports failures to reach the host or keep a connection to it:
// refused or reset connections, DNS misses, dial timeouts and a peer that
// hangs up before answering.
func isConnError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}
