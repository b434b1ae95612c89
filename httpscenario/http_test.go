package httpscenario

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scenario "github.com/pumped-fn/pumped-scenario"
	"github.com/pumped-fn/pumped-scenario/check"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newRouter() http.Handler {
	items := map[string]item{"1": {ID: "1", Name: "kettle"}}

	r := chi.NewRouter()
	r.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
		it, ok := items[chi.URLParam(req, "id")]
		if !ok {
			http.Error(w, "no such item", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(it)
	})
	r.Post("/items", func(w http.ResponseWriter, req *http.Request) {
		var it item
		if err := json.NewDecoder(req.Body).Decode(&it); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(it)
	})
	return r
}

func TestActAndCall_Get(t *testing.T) {
	acted := ActAndCall(ArrangeServer(newRouter()), Request(http.MethodGet, "/items/1", ""))

	test := scenario.Verify(acted, func(_ context.Context, _ *Server, r *Response) error {
		return StatusIs(http.StatusOK)(r)
	}).And(BodyContains("kettle")).And(func(r *Response) error {
		got, err := DecodeJSON[item](r)
		if err != nil {
			return err
		}
		return check.Equal(item{ID: "1", Name: "kettle"})(got)
	})

	require.NoError(t, test.Run(context.Background()))
}

func TestActAndCall_NotFound(t *testing.T) {
	acted := ActAndCall(ArrangeServer(newRouter()), Request(http.MethodGet, "/items/9", ""))

	err := scenario.Verify(acted, func(_ context.Context, _ *Server, r *Response) error {
		return StatusIs(http.StatusOK)(r)
	}).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected status 200, got 404 no such item")
}

func TestActAndCall_PostJSON(t *testing.T) {
	acted := ActAndCall(ArrangeServer(newRouter()), JSON(http.MethodPost, "/items", item{ID: "2", Name: "mug"}))

	test := scenario.Verify(acted, func(_ context.Context, _ *Server, r *Response) error {
		return StatusIs(http.StatusCreated)(r)
	}).And(BodyContains(`"name":"mug"`))

	require.NoError(t, test.Run(context.Background()))
	require.NoError(t, test.Run(context.Background()), "request bodies are rebuilt on every run")
}

func TestArrangeServer_ClosedAfterRun(t *testing.T) {
	var server *Server
	acted := ActAndCall(
		ArrangeServer(newRouter()).And(func(s *Server) { server = s }),
		Request(http.MethodGet, "/items/1", ""),
	)

	require.NoError(t, scenario.Verify(acted, func(context.Context, *Server, *Response) error { return nil }).Run(context.Background()))
	require.NotNil(t, server)

	_, err := http.Get(server.URL + "/items/1")
	assert.Error(t, err, "server should be closed once the run finishes")
}

func TestServerCache_SharesServer(t *testing.T) {
	servers := NewServerCache()
	var built atomic.Int32
	handler := func() http.Handler {
		built.Add(1)
		return newRouter()
	}

	var urls []string
	test := scenario.Verify(
		ActAndCall(servers.Arrange("items", handler).And(func(s *Server) { urls = append(urls, s.URL) }), Request(http.MethodGet, "/items/1", "")),
		func(_ context.Context, _ *Server, r *Response) error { return StatusIs(http.StatusOK)(r) },
	)

	require.NoError(t, test.Run(context.Background()))
	require.NoError(t, test.Run(context.Background()))
	assert.Equal(t, int32(1), built.Load())
	require.Len(t, urls, 2)
	assert.Equal(t, urls[0], urls[1])

	require.NoError(t, servers.Dispose(context.Background()))
	_, err := http.Get(urls[0] + "/items/1")
	assert.Error(t, err)
}
