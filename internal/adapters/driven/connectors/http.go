// Package connectors holds the HTTP plumbing shared by the partner API
// clients in its subpackages.
package connectors

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// DefaultTimeout bounds every partner API request.
const DefaultTimeout = 30 * time.Second

// StatusError is a non-2xx partner API response.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Service, e.Status, e.Body)
}

// Unwrap maps the status onto a domain sentinel.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	}
	return domain.ErrUpstream
}

// BasicAuth returns a header carrying HTTP basic credentials.
func BasicAuth(username, password string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(username+":"+password)))
	return h
}

// Bearer returns a header carrying a bearer token.
func Bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// Request is one partner API call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Client sends requests and retries throttling and server errors.
type Client struct {
	service    string
	httpClient *http.Client
	maxRetries int
	retryWait  time.Duration
}

// NewClient creates a Client. A nil httpClient uses one with DefaultTimeout.
func NewClient(service string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		service:    service,
		httpClient: httpClient,
		maxRetries: 3,
		retryWait:  time.Second,
	}
}

// WithRetry overrides the retry budget and the base wait between attempts.
func (c *Client) WithRetry(maxRetries int, wait time.Duration) *Client {
	c.maxRetries = maxRetries
	c.retryWait = wait
	return c
}

// HTTPClient returns the underlying client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// OAuthContext carries the underlying client into golang.org/x/oauth2 calls.
func (c *Client) OAuthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// Do sends r and returns the body of a 2xx response. Other statuses return
// a *StatusError carrying the body.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	var resp *http.Response
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.Body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		for k, vs := range r.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("do request: %w: %w", domain.ErrTimeout, err)
			}
			return nil, fmt.Errorf("do request: %w: %w", domain.ErrUpstream, err)
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		if attempt == c.maxRetries {
			break
		}

		wait := time.Duration(attempt+1) * c.retryWait
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 && s < 60 {
			wait = time.Duration(s) * time.Second
		}
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &StatusError{Service: c.service, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// JSON sends in as a JSON body, when non-nil, and decodes the response into
// out, when non-nil.
func (c *Client) JSON(ctx context.Context, method, url string, header http.Header, in, out any) error {
	r := Request{Method: method, URL: url, Header: header.Clone()}
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set("Accept", "application/json")
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r.Body = body
		r.Header.Set("Content-Type", "application/json")
	}

	body, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// OAuthError classifies a golang.org/x/oauth2 token endpoint failure.
// Rejected grants and client credentials become domain.ErrUnauthorized.
func OAuthError(service string, err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s token request: %w: %w", service, domain.ErrTimeout, err)
		}
		return fmt.Errorf("%s token request: %w: %w", service, domain.ErrUpstream, err)
	}

	msg := re.ErrorDescription
	if msg == "" {
		msg = string(re.Body)
	}
	status := 0
	if re.Response != nil {
		status = re.Response.StatusCode
	}
	switch {
	case re.ErrorCode == "invalid_grant", re.ErrorCode == "invalid_client", re.ErrorCode == "unauthorized_client",
		status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%s token request: %w: %s", service, domain.ErrUnauthorized, msg)
	}
	return fmt.Errorf("%s token request: %w: %s", service, domain.ErrUpstream, msg)
}
