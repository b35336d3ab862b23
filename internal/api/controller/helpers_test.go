package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/localstore"
	"github.com/vijayapps/vac_site/internal/remote"
	"github.com/vijayapps/vac_site/internal/site"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	client    *remote.MemoryClient
	store     *localstore.MemoryStore
	bus       *broadcast.Bus
	catalog   *site.Catalog
	publisher *refreshPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	bus := broadcast.New()
	store := localstore.NewMemoryStore(bus)
	client := remote.NewMemoryClient()
	catalog, err := site.NewCatalog(client, store, loader.WithFetchTimeout(time.Second))
	require.NoError(t, err)
	return &testEnv{
		client:    client,
		store:     store,
		bus:       bus,
		catalog:   catalog,
		publisher: &refreshPublisher{catalog: catalog},
	}
}

// refreshPublisher refreshes the catalog like the app does, without a relay.
type refreshPublisher struct {
	catalog *site.Catalog
	mu      sync.Mutex
	keys    []string
}

func (p *refreshPublisher) PublishChange(ctx context.Context, keys ...string) {
	p.mu.Lock()
	p.keys = append(p.keys, keys...)
	p.mu.Unlock()
	for _, k := range keys {
		_, _ = p.catalog.Refresh(ctx, k)
	}
}

func (p *refreshPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func doRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
