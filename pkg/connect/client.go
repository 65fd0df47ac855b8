// Package connect is the requester side of the wallet agent: it opens connect
// and sign requests, follows the session channel and returns the single
// result envelope once the wallet owner has decided.
package connect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gorilla/websocket"
)

// Payload sources understood by the agent
const (
	SourceURL     = "url"
	SourceStore   = "store"
	SourceMessage = "message"
)

// APIError is a non-2xx answer from the agent
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wallet agent returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("wallet agent returned %d: %s", e.Status, e.Message)
}

// IsAPIError checks if error is APIError
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// Client talks to one wallet agent
type Client struct {
	baseURL    string
	origin     string
	httpClient *http.Client
	dialer     *websocket.Dialer
}

// Option configures a Client
type Option func(*Client)

// WithOrigin sets the Origin header sent with every request
func WithOrigin(origin string) Option {
	return func(c *Client) { c.origin = origin }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDialer replaces the default websocket dialer
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// New creates a client for the agent at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		dialer:     websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignOptions select how the payload reaches a sign request
type SignOptions struct {
	// Source is SourceURL, SourceStore or SourceMessage (default)
	Source  string
	Kind    model.PayloadKind
	Payload []byte
}

// Connect opens a connect request and attaches to its channel
func (c *Client) Connect(ctx context.Context, dapp model.DappRequestContext) (*Session, error) {
	var opened model.OpenResponse
	if err := c.do(ctx, http.MethodPost, "/connect", dapp, &opened); err != nil {
		return nil, fmt.Errorf("failed to open connect request: %w", err)
	}
	return c.attach(ctx, opened)
}

// Sign opens a sign request, attaches to its channel and hands the payload
// over through the selected source
func (c *Client) Sign(ctx context.Context, dapp model.DappRequestContext, opts SignOptions) (*Session, error) {
	if opts.Source == "" {
		opts.Source = SourceMessage
	}
	if _, err := model.ParsePayloadKind(string(opts.Kind)); err != nil {
		return nil, err
	}

	query := url.Values{"source": {opts.Source}}
	switch opts.Source {
	case SourceURL:
		query.Set("kind", string(opts.Kind))
		query.Set("payload", base64.RawURLEncoding.EncodeToString(opts.Payload))
	case SourceStore:
		if err := c.PutPendingPayload(ctx, model.PendingPayload{Kind: opts.Kind, Data: opts.Payload}); err != nil {
			return nil, err
		}
	}

	var opened model.OpenResponse
	if err := c.do(ctx, http.MethodPost, "/sign?"+query.Encode(), dapp, &opened); err != nil {
		return nil, fmt.Errorf("failed to open sign request: %w", err)
	}

	s, err := c.attach(ctx, opened)
	if err != nil {
		return nil, err
	}

	if opts.Source == SourceMessage {
		msgType := model.MessageSignMessage
		if opts.Kind == model.PayloadTransaction {
			msgType = model.MessageSignTransaction
		}
		if err := s.SendMessage(model.OpenerMessage{Type: msgType, Data: opts.Payload}); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// PutPendingPayload writes the shared-store payload record
func (c *Client) PutPendingPayload(ctx context.Context, p model.PendingPayload) error {
	if err := c.do(ctx, http.MethodPut, "/pending-payload", p, nil); err != nil {
		return fmt.Errorf("failed to store pending payload: %w", err)
	}
	return nil
}

// PutDappDetails introduces the requester through the shared store
func (c *Client) PutDappDetails(ctx context.Context, dapp model.DappRequestContext) error {
	if err := c.do(ctx, http.MethodPut, "/dapp-details", dapp, nil); err != nil {
		return fmt.Errorf("failed to store dapp details: %w", err)
	}
	return nil
}

// PostMessage sends a message over HTTP instead of the channel
func (c *Client) PostMessage(ctx context.Context, id string, msg model.OpenerMessage) error {
	if err := c.do(ctx, http.MethodPost, "/handshakes/"+url.PathEscape(id)+"/messages", msg, nil); err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	return nil
}

func (c *Client) attach(ctx context.Context, opened model.OpenResponse) (*Session, error) {
	header := http.Header{}
	if c.origin != "" {
		header.Set("Origin", c.origin)
	}

	conn, resp, err := c.dialer.DialContext(ctx, opened.ChannelURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to attach to %s: %w", opened.ChannelURL, err)
	}
	return &Session{OpenResponse: opened, conn: conn}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	return c.doWith(ctx, method, path, nil, in, out)
}

func (c *Client) doWith(ctx context.Context, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr model.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
