// Package client implements the shared HTTP client wrapper for the Grade
// Gator backend API. All resource services go through it; it owns the
// cookie jar (backend session + csrftoken cookies) and translates every
// failure into a tagged *core.APIError.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/gradegator/dashboard/core"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeader     = "X-CSRFToken"
)

type Client struct {
	baseURL *url.URL
	rest    *rest.Client
	jar     http.CookieJar
}

// New returns a Client with a fresh cookie jar.
func New(conf *core.Config) (*Client, error) {
	return NewWithCookies(conf, nil)
}

// NewWithCookies returns a Client whose jar is seeded with cookies,
// typically the ones captured in a stored session.
func NewWithCookies(conf *core.Config, cookies []*http.Cookie) (*Client, error) {
	base, err := url.Parse(conf.API.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing API base URL")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	if len(cookies) > 0 {
		jar.SetCookies(base, cookies)
	}
	return &Client{
		baseURL: base,
		rest:    &rest.Client{HTTPClient: &http.Client{Jar: jar}},
		jar:     jar,
	}, nil
}

// Cookies returns the jar's current cookies for the API origin so a session
// snapshot can be persisted across requests.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.baseURL)
}

func (c *Client) csrfToken() string {
	for _, ck := range c.Cookies() {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

func isMutating(method rest.Method) bool {
	switch method {
	case rest.Post, rest.Put, rest.Patch, rest.Delete:
		return true
	}
	return false
}

// Do sends a JSON request and decodes the JSON response into out (skipped
// when out is nil). body is marshalled to JSON when non-nil. Mutating
// requests carry the current csrftoken cookie value in X-CSRFToken; when no
// cookie is present the header is omitted and the backend is expected to
// reject the call.
func (c *Client) Do(ctx context.Context, method rest.Method, path string, query map[string]string, body, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL.String() + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		req.Body = b
		req.Headers["Content-Type"] = "application/json"
	}
	return c.send(ctx, req, out)
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, rest.Get, path, nil, nil, out)
}

func (c *Client) GetQuery(ctx context.Context, path string, query map[string]string, out interface{}) error {
	return c.Do(ctx, rest.Get, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, rest.Post, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, rest.Patch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, rest.Delete, path, nil, nil, nil)
}

// PostForm sends an already-encoded multipart body. contentType must be the
// multipart content type carrying the boundary; the wrapper never overrides
// it.
func (c *Client) PostForm(ctx context.Context, path string, body []byte, contentType string, out interface{}) error {
	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.baseURL.String() + path,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": contentType,
		},
		Body: body,
	}
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req rest.Request, out interface{}) error {
	if isMutating(req.Method) {
		if token := c.csrfToken(); token != "" {
			req.Headers[csrfHeader] = token
		}
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return &core.APIError{Kind: core.KindNetwork, Detail: "network error", Err: err}
	}
	if res.StatusCode >= 400 {
		return decodeError(res.StatusCode, []byte(res.Body))
	}
	if out != nil && len(res.Body) > 0 {
		if err := json.Unmarshal([]byte(res.Body), out); err != nil {
			return &core.APIError{
				Kind:   core.KindServer,
				Status: res.StatusCode,
				Detail: "malformed response from server",
				Err:    err,
			}
		}
	}
	return nil
}
