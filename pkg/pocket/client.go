package pocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/pocket-cli/pkg/httpclient"
)

// Wire names of the credential fields merged into every payload.
const (
	ConsumerKeyField = "consumer_key"
	AccessTokenField = "access_token"

	errorHeader     = "X-Error"
	errorCodeHeader = "X-Error-Code"
	redacted        = "********"
)

// Credentials is the consumer key / access token pair sent with every request.
type Credentials struct {
	ConsumerKey string
	AccessToken string
}

// Request is a fully resolved call, ready to send.
type Request struct {
	Operation Operation `json:"operation" yaml:"operation"`
	URL       string    `json:"url" yaml:"url"`
	Body      Payload   `json:"body" yaml:"body"`
}

// Redacted returns a copy of the request with the access token masked.
func (r *Request) Redacted() *Request {
	body := make(Payload, len(r.Body))
	for k, v := range r.Body {
		body[k] = v
	}
	if _, ok := body[AccessTokenField]; ok {
		body[AccessTokenField] = redacted
	}
	return &Request{Operation: r.Operation, URL: r.URL, Body: body}
}

// Client talks to the v3 API. Every call is a single POST attempt.
type Client struct {
	creds   Credentials
	baseURL string
	http    httpclient.Client
	log     Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the resty-backed transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// NewClient returns a client bound to creds.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:   creds,
		baseURL: DefaultBaseURL,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// Retrieve lists saved items matching opts and returns the response JSON text.
func (c *Client) Retrieve(ctx context.Context, opts RetrieveOptions) (string, error) {
	return c.Do(ctx, OpRetrieve, BuildRetrievePayload(opts))
}

// Add saves a new item and returns the response JSON text.
func (c *Client) Add(ctx context.Context, opts AddOptions) (string, error) {
	return c.Do(ctx, OpAdd, BuildAddPayload(opts))
}

// Prepare resolves the endpoint for op and merges the credentials into a copy
// of payload. Nothing is sent.
func (c *Client) Prepare(op Operation, payload Payload) (*Request, error) {
	endpoint, err := EndpointURL(c.baseURL, op)
	if err != nil {
		return nil, err
	}

	body := make(Payload, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body[ConsumerKeyField] = c.creds.ConsumerKey
	body[AccessTokenField] = c.creds.AccessToken

	return &Request{Operation: op, URL: endpoint, Body: body}, nil
}

// Do sends payload to the endpoint of op and returns the response body on HTTP 200.
func (c *Client) Do(ctx context.Context, op Operation, payload Payload) (string, error) {
	req, err := c.Prepare(op, payload)
	if err != nil {
		return "", err
	}

	requestID := uuid.NewString()
	start := time.Now()
	c.log.DebugObj("pocket request", "request_meta", map[string]any{
		"request_id": requestID,
		"operation":  string(op),
		"url":        req.URL,
		"params":     payloadKeys(payload),
	})

	resp, err := c.http.Post(ctx, req.URL, map[string]string{"Content-Type": "application/json"}, req.Body)
	if err != nil {
		c.log.DebugObj("pocket request failed", "request_meta", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return "", &TransportError{Operation: op, URL: req.URL, Err: err}
	}

	c.log.DebugObj("pocket response", "response_meta", map[string]any{
		"request_id": requestID,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode() != http.StatusOK {
		return "", &RemoteError{
			Operation:  op,
			StatusCode: resp.StatusCode(),
			Message:    resp.Header(errorHeader),
			Code:       resp.Header(errorCodeHeader),
		}
	}

	body := resp.Body()
	if !json.Valid(body) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidResponse)
	}
	return string(body), nil
}

func payloadKeys(p Payload) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
