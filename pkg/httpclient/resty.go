// Package httpclient wraps the HTTP client used by provider-facing code.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of the HTTP response consumed by callers.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client performs outbound HTTP calls with per-call context and headers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, query, headers map[string]string) (Response, error)
}

// restyClient implements Client on top of resty.
type restyClient struct {
	client *resty.Client
}

// NewRestyClient builds a Client with the given request timeout.
func NewRestyClient(timeout time.Duration) Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &restyClient{client: c}
}

func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *restyClient) Post(ctx context.Context, url string, query, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
