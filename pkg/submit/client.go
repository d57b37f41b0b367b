package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-signup/pkg/field"
)

// DefaultEndpoint is the newsletter endpoint used when none is configured.
const DefaultEndpoint = "http://curso-dev-2021.herokuapp.com/newsletter"

// RequestIDHeader carries the per-submission correlation id.
const RequestIDHeader = "X-Request-ID"

// Response is a decoded endpoint reply.
type Response struct {
	StatusCode int
	RequestID  string
	// Body is the decoded JSON value.
	Body any
	// Raw is the compacted JSON body.
	Raw []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorDetail returns the "error" member of an object body.
func (r Response) ErrorDetail() string {
	obj, ok := r.Body.(map[string]any)
	if !ok {
		return ""
	}
	switch v := obj["error"].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Client issues submissions against a fixed endpoint.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	requestID  func() string
	logger     *slog.Logger
}

// New constructs a client for endpoint.
func New(endpoint string, options ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("submit: parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("submit: endpoint %q must be absolute", endpoint)
	}

	c := &Client{
		endpoint:   u,
		httpClient: &http.Client{},
		requestID:  uuid.NewString,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// URL returns the request URL for payload.
func (c *Client) URL(payload field.Payload) string {
	u := *c.endpoint
	query := payload.Encode()
	if u.RawQuery != "" && query != "" {
		u.RawQuery += "&" + query
	} else if query != "" {
		u.RawQuery = query
	}
	return u.String()
}

// Send issues the GET request and classifies the reply.
func (c *Client) Send(ctx context.Context, payload field.Payload) (Response, error) {
	target := c.URL(payload)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, &NetworkError{URL: c.Endpoint(), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Response{}, &NetworkError{URL: c.Endpoint(), Err: err}
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With("request_id", requestID, "endpoint", c.Endpoint())
	logger.Debug("submit: sending", "fields", len(payload))

	res, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("submit: transport failure", "error", err)
		return Response{}, &NetworkError{URL: c.Endpoint(), Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		logger.Warn("submit: read body failed", "error", err)
		return Response{}, &NetworkError{URL: c.Endpoint(), Err: err}
	}

	resp, err := decodeResponse(res.StatusCode, requestID, body)
	if err != nil {
		logger.Warn("submit: undecodable body", "status", res.StatusCode, "error", err)
		return Response{}, &NetworkError{URL: c.Endpoint(), Err: err}
	}

	if !resp.OK() {
		logger.Info("submit: rejected", "status", resp.StatusCode)
		return resp, &RejectedError{
			StatusCode: resp.StatusCode,
			Detail:     resp.ErrorDetail(),
			Response:   resp,
		}
	}

	logger.Info("submit: accepted", "status", resp.StatusCode)
	return resp, nil
}

func decodeResponse(status int, requestID string, body []byte) (Response, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Response{}, fmt.Errorf("decode body: %w", err)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return Response{}, fmt.Errorf("compact body: %w", err)
	}
	return Response{
		StatusCode: status,
		RequestID:  requestID,
		Body:       decoded,
		Raw:        compact.Bytes(),
	}, nil
}

// IsNetworkError reports whether err is a *NetworkError.
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
