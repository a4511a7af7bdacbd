package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstream/shopstream/core/pipeline"
	"github.com/shopstream/shopstream/core/push"
	"github.com/shopstream/shopstream/core/schema"
	"github.com/shopstream/shopstream/core/storage"
	"github.com/shopstream/shopstream/domain/catalog"
)

func newCatalogServer(t *testing.T) (*httptest.Server, *push.Hub) {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hub := push.NewHub(zerolog.Nop(), nil)
	t.Cleanup(hub.Close)

	newPipeline := func(rec schema.Record, collection, event string) *pipeline.Pipeline {
		return &pipeline.Pipeline{
			Schema:     rec,
			Store:      store,
			Collection: collection,
			Notifier:   hub,
			Event:      event,
			Logger:     zerolog.Nop(),
		}
	}

	router := NewCatalogRouter(CatalogDeps{
		Products:   newPipeline(catalog.Product(), catalog.ProductsCollection, catalog.NewProductEvent),
		Categories: newPipeline(catalog.Category(), catalog.CategoriesCollection, catalog.NewCategoryEvent),
		Hub:        hub,
		Logger:     zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(bytes.TrimSpace(raw)) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func getJSONList(t *testing.T, url string) (*http.Response, []map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	return resp, list
}

func TestCreateCategoryRoundTrip(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, created := postJSON(t, srv.URL+"/categories", `{"name":"Electronics"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Electronics", created["name"])
	assert.NotEmpty(t, created[storage.IDKey])

	listResp, categories := getJSONList(t, srv.URL+"/categories")
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Len(t, categories, 1)
	assert.Equal(t, created[storage.IDKey], categories[0][storage.IDKey])
	assert.Equal(t, "Electronics", categories[0]["name"])
}

func TestCreateProduct(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, created := postJSON(t, srv.URL+"/products", `{
		"name": "Keyboard",
		"about": "Mechanical, tenkeyless",
		"price": 89.90,
		"categoryIds": ["4d2f8b6a-9c3e-4f1a-8b7d-2e5c9a1f6d3b"]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Keyboard", created["name"])
	assert.Equal(t, 89.90, created["price"])
	assert.NotEmpty(t, created[storage.IDKey])
}

func TestCreateProductDanglingReference(t *testing.T) {
	// Referential integrity is not enforced; an id with no matching
	// category is accepted.
	srv, _ := newCatalogServer(t)

	resp, _ := postJSON(t, srv.URL+"/products", `{
		"name": "Mouse",
		"about": "Wireless",
		"price": 25.00,
		"categoryIds": ["no-such-category"]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateProductNegativePrice(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, body := postJSON(t, srv.URL+"/products", `{
		"name": "Keyboard",
		"about": "Mechanical",
		"price": -5,
		"categoryIds": []
	}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	violations := body["errors"].([]any)
	require.NotEmpty(t, violations)
	first := violations[0].(map[string]any)
	assert.Equal(t, "price", first["field"])

	_, products := getJSONList(t, srv.URL+"/products")
	assert.Empty(t, products, "rejected input is never persisted")
}

func TestCreateProductMissingFields(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, body := postJSON(t, srv.URL+"/products", `{"name":"Keyboard"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	violations := body["errors"].([]any)
	var fields []string
	for _, v := range violations {
		fields = append(fields, v.(map[string]any)["field"].(string))
	}
	assert.Equal(t, []string{"about", "price", "categoryIds"}, fields,
		"violations are reported in schema field order")
}

func TestCreateMalformedBody(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, body := postJSON(t, srv.URL+"/categories", `{not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["errors"])
}

func TestClientIdentifierIgnored(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, created := postJSON(t, srv.URL+"/categories", `{"_id":"mine","name":"Books"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, "mine", created[storage.IDKey])
}

func TestListProductsEmpty(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, products := getJSONList(t, srv.URL+"/products")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestHealth(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateBroadcastsEvent(t *testing.T) {
	srv, hub := newCatalogServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, created := postJSON(t, srv.URL+"/categories", `{"name":"Electronics"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env push.Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, catalog.NewCategoryEvent, env.Event)
	assert.Equal(t, created[storage.IDKey], env.Data["_id"],
		"broadcast carries the persisted record with its assigned id")
}

func TestCreateBroadcastNotSentOnValidationFailure(t *testing.T) {
	srv, _ := newCatalogServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	resp, _ := postJSON(t, srv.URL+"/categories", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no event should arrive for rejected input")
}
