package plotter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/penplot/internal/stroke"
)

// Transport defines the relay operations used by the client. It is
// implemented by *Client and can be faked in tests.
type Transport interface {
	SendPoint(ctx context.Context, p stroke.WirePoint) error
	SendCommand(ctx context.Context, cmd Command) error
	Sync(ctx context.Context, req SyncRequest) (Response, error)
}

// Ensure Client implements Transport at compile time.
var _ Transport = (*Client)(nil)

// ClientHeader carries the per-process client identity.
const ClientHeader = "X-Penplot-Client"

// Client talks to the penplotd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	clientID  string
}

const (
	defaultServer    = "127.0.0.1:8080"
	defaultUserAgent = "penplot/0.1"
	requestTimeout   = 5 * time.Second
	maxResponseBytes = 8 << 20
)

// NewClient builds a Client for the relay at server (host:port or URL).
func NewClient(server, clientID string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		clientID:  strings.TrimSpace(clientID),
	}, nil
}

// BaseURL returns the relay address the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// SendPoint transmits a single decimated stroke point.
func (c *Client) SendPoint(ctx context.Context, p stroke.WirePoint) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode point: %w", err)
	}
	_, err = c.post(ctx, "/api/point", body)
	return err
}

// SendCommand transmits a device control command.
func (c *Client) SendCommand(ctx context.Context, cmd Command) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	_, err = c.post(ctx, "/api/command", body)
	return err
}

// Sync pushes the client's view (or a clear) and returns the relay's
// authoritative reply.
func (c *Client) Sync(ctx context.Context, req SyncRequest) (Response, error) {
	if c == nil {
		return Response{}, fmt.Errorf("client is nil")
	}
	body, err := req.Body()
	if err != nil {
		return Response{}, fmt.Errorf("encode lines: %w", err)
	}
	raw, err := c.post(ctx, "/api/lines", body)
	if err != nil {
		return Response{}, err
	}
	return DecodeResponse(raw), nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.clientID != "" {
		req.Header.Set(ClientHeader, c.clientID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
