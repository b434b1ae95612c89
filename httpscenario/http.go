// Package httpscenario arranges HTTP servers and calls them as the act step.
package httpscenario

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/pkg/errors"

	scenario "github.com/pumped-fn/pumped-scenario"
	"github.com/pumped-fn/pumped-scenario/cache"
)

// Server is a test server. Runs that arrange one close it when they finish.
type Server struct {
	*httptest.Server
}

// ArrangeServer starts a test server for handler when the scenario runs.
func ArrangeServer(handler http.Handler) scenario.Arranged[*Server] {
	return scenario.Produce(func(context.Context) (*Server, error) {
		return &Server{Server: httptest.NewServer(handler)}, nil
	})
}

// ServerCache shares servers between scenarios by key.
type ServerCache struct {
	servers *cache.Disposing[string, *Server]
}

func NewServerCache() *ServerCache {
	return &ServerCache{servers: cache.New[string, *Server]()}
}

// Arrange reuses the server cached under key, starting it on first use.
// The cache owns the server, so runs leave it open.
func (c *ServerCache) Arrange(key string, handler func() http.Handler) scenario.Arranged[*Server] {
	return scenario.Borrow(func(ctx context.Context) (*Server, error) {
		return c.servers.Get(ctx, key, func(context.Context) (*Server, error) {
			return &Server{Server: httptest.NewServer(handler())}, nil
		})
	})
}

func (c *ServerCache) Dispose(ctx context.Context) error {
	return c.servers.Dispose(ctx)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) String() string {
	return fmt.Sprintf("%d %s", r.StatusCode, strings.TrimSpace(string(r.Body)))
}

// RequestBuilder builds the request to send from the arranged data.
type RequestBuilder[T any] func(data T) (*http.Request, error)

// Request targets path on the arranged server. An empty body sends none.
func Request(method, path, body string) RequestBuilder[*Server] {
	return func(s *Server) (*http.Request, error) {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		return http.NewRequest(method, s.URL+path, r)
	}
}

// JSON targets path on the arranged server with v encoded as the body.
func JSON(method, path string, v any) RequestBuilder[*Server] {
	return func(s *Server) (*http.Request, error) {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		req, err := http.NewRequest(method, s.URL+path, bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// ActAndCall sends the built request as the act step.
func ActAndCall[T any](a scenario.Arranged[T], build RequestBuilder[T]) scenario.Acted[T, *Response] {
	return ActAndCallWith(a, defaultClient, build)
}

func ActAndCallWith[T any](a scenario.Arranged[T], client *http.Client, build RequestBuilder[T]) scenario.Acted[T, *Response] {
	return scenario.Transform(a, func(ctx context.Context, data T) (*Response, error) {
		req, err := build(data)
		if err != nil {
			return nil, errors.Wrap(err, "building request")
		}
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "reading response body")
		}
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}, nil
	})
}

// StatusIs checks the response status code.
func StatusIs(code int) func(*Response) error {
	return func(r *Response) error {
		if r.StatusCode != code {
			return fmt.Errorf("expected status %d, got %s", code, r)
		}
		return nil
	}
}

// BodyContains checks that the response body contains s.
func BodyContains(s string) func(*Response) error {
	return func(r *Response) error {
		if !bytes.Contains(r.Body, []byte(s)) {
			return fmt.Errorf("expected body to contain %q, got %q", s, r.Body)
		}
		return nil
	}
}

// DecodeJSON decodes the response body into a T.
func DecodeJSON[T any](r *Response) (T, error) {
	var v T
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return v, errors.Wrap(err, "decoding response body")
	}
	return v, nil
}
