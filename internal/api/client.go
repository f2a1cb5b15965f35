// Package api implements the responder gateway: one HTTP exchange per turn.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	apierrors "github.com/speedybites/bitechat/internal/errors"
	"github.com/speedybites/bitechat/internal/models"
)

const defaultTimeout = 15 * time.Second

// Client issues chat exchanges against the configured endpoint. It performs
// no retries and no queueing; the conversation store's loading guard ensures
// at most one exchange is in flight.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeout sets the per-exchange timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a gateway for the given chat endpoint.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, apierrors.ErrNoEndpoint
	}

	client := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Endpoint returns the configured chat endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// exchangeRequest is the documented request body: one message per turn.
type exchangeRequest struct {
	Message string `json:"message"`
}

// Exchange POSTs the text and parses the reply. A non-2xx status, transport
// error, or unparseable body is a failure. A well-formed body with missing
// fields is not: the reply text defaults to empty and the flag map to nil,
// and the store substitutes from there.
func (c *Client) Exchange(ctx context.Context, text string) (*models.Reply, error) {
	payload, err := json.Marshal(exchangeRequest{Message: text})
	if err != nil {
		return nil, apierrors.NewParseError("encoding request: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apierrors.NewNetworkError("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; no structured error
		// body is part of the contract.
		io.Copy(io.Discard, resp.Body)
		return nil, apierrors.NewAPIError(resp.StatusCode, c.endpoint, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError("reading response body", err)
	}

	return parseReply(body)
}

// parseReply interprets a success body tolerantly.
func parseReply(body []byte) (*models.Reply, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON")
	}

	reply := &models.Reply{
		Text: gjson.GetBytes(body, "response").String(),
	}

	if flags := gjson.GetBytes(body, "sessionFlags"); flags.IsObject() {
		reply.Flags = make(map[string]bool)
		flags.ForEach(func(key, value gjson.Result) bool {
			reply.Flags[key.String()] = value.Bool()
			return true
		})
	}

	return reply, nil
}

// classifyTransportError maps net/http failures onto the gateway taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError("")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return apierrors.NewTimeoutError(urlErr.URL)
		}
		return apierrors.NewNetworkError("request to "+urlErr.URL+" failed", urlErr.Err)
	}

	return apierrors.NewNetworkError("request failed", err)
}
