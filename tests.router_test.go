package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRouter wires the full routing stack over the given storage.
func newTestRouter(storage BookStorage, config *Config) *httprouter.Router {
	api := NewAPIHandler(
		zap.NewNop(),
		config,
		&Statistics{started: time.Now()},
		NewClock(false),
		NewIDsHandler(),
		NewBookService(zap.NewNop(), storage, nil),
	)
	pub, ops := api.MiddlewaresStacks()
	return api.SetupRoutes(httprouter.New(), &MiddlewareMap{public: pub.Chain, ops: ops.Chain})
}

// TestSetupRoutes ensures all expected endpoints are implemented.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		config      *Config
		request     *http.Request
		implemented bool
	}{
		{"index endpoint", &Config{}, httptest.NewRequest(http.MethodGet, "/", nil), true},
		{"status endpoint", &Config{}, httptest.NewRequest(http.MethodGet, "/status", nil), true},
		{"list books endpoint", &Config{}, httptest.NewRequest(http.MethodGet, BooksPath, nil), true},
		{"create book endpoint", &Config{}, httptest.NewRequest(http.MethodPost, BooksPath, nil), true},
		{"fetch book endpoint", &Config{}, httptest.NewRequest(http.MethodGet, BooksPath+"/"+testBookID, nil), true},
		{"replace book endpoint", &Config{}, httptest.NewRequest(http.MethodPut, BooksPath+"/"+testBookID, nil), true},
		{"delete book endpoint", &Config{}, httptest.NewRequest(http.MethodDelete, BooksPath+"/"+testBookID, nil), true},
		{"swagger endpoint", &Config{}, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil), true},
		{"ops stats disabled", &Config{}, httptest.NewRequest(http.MethodGet, "/ops/stats", nil), false},
		{"ops stats enabled", &Config{OpsEndpointsEnable: true}, httptest.NewRequest(http.MethodGet, "/ops/stats", nil), true},
		{"ops configs enabled", &Config{OpsEndpointsEnable: true}, httptest.NewRequest(http.MethodGet, "/ops/configs", nil), true},
		{"ops maintenance enabled", &Config{OpsEndpointsEnable: true}, httptest.NewRequest(http.MethodGet, "/ops/maintenance", nil), true},
		{"profiler disabled", &Config{OpsEndpointsEnable: true}, httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/cmdline", nil), false},
		{
			"profiler enabled",
			&Config{OpsEndpointsEnable: true, ProfilerEndpointsEnable: true},
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/cmdline", nil),
			true,
		},
		{"unknown endpoint", &Config{}, httptest.NewRequest(http.MethodGet, "/api/authors", nil), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&MockBookStorage{}, tc.config)
			handle, _, _ := router.Lookup(tc.request.Method, tc.request.URL.Path)
			assert.Equal(t, tc.implemented, handle != nil)
		})
	}
}

func newTestBoltStore(t *testing.T) *boltBookStorage {
	t.Helper()
	config := &BoltDBConfig{Timeout: time.Second, BucketName: "test.books"}
	client, err := GetBoltDBClient(filepath.Join(t.TempDir(), "books.db"), config)
	require.NoError(t, err, "failed in creating a test bolt store")
	bs := NewBoltBookStorage(zap.NewNop(), config.BucketName, client)
	t.Cleanup(func() { bs.Close() })
	return bs
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, r))
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

// TestBooksEndToEnd runs the books api through the router over a real bolt store.
func TestBooksEndToEnd(t *testing.T) {
	t.Run("create then fetch from location", func(t *testing.T) {
		router := newTestRouter(newTestBoltStore(t), &Config{})
		res, data := doRequest(t, router, http.MethodPost, BooksPath, `{"name":"Dune","price":12.5,"category":"Fiction"}`)
		require.Equal(t, http.StatusCreated, res.StatusCode)
		location := res.Header.Get("Location")
		require.True(t, strings.HasPrefix(location, BooksPath+"/"))
		id := strings.TrimPrefix(location, BooksPath+"/")
		assert.Len(t, id, BookIDLength)
		assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

		var created Book
		require.NoError(t, json.Unmarshal(data, &created))
		assert.Equal(t, Book{ID: id, Name: "Dune", Price: 12.5, Category: "Fiction"}, created)

		res, data = doRequest(t, router, http.MethodGet, location, "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var fetched Book
		require.NoError(t, json.Unmarshal(data, &fetched))
		assert.Equal(t, created, fetched)
	})

	t.Run("well-formed but unassigned id", func(t *testing.T) {
		router := newTestRouter(newTestBoltStore(t), &Config{})
		res, data := doRequest(t, router, http.MethodGet, BooksPath+"/000000000000000000000000", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Contains(t, string(data), "book does not exist")
	})

	t.Run("id of wrong length", func(t *testing.T) {
		router := newTestRouter(newTestBoltStore(t), &Config{})
		res, data := doRequest(t, router, http.MethodGet, BooksPath+"/short", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Contains(t, string(data), "route does not exist")
		assert.NotContains(t, string(data), "book does not exist")
	})

	t.Run("list after three creations", func(t *testing.T) {
		router := newTestRouter(newTestBoltStore(t), &Config{})
		for _, name := range []string{"Dune", "Emma", "Ulysses"} {
			res, _ := doRequest(t, router, http.MethodPost, BooksPath, `{"name":"`+name+`","price":1,"category":"Novel"}`)
			require.Equal(t, http.StatusCreated, res.StatusCode)
		}
		res, data := doRequest(t, router, http.MethodGet, BooksPath, "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var books []Book
		require.NoError(t, json.Unmarshal(data, &books))
		assert.Len(t, books, 3)
	})

	t.Run("replace never creates and delete is idempotent", func(t *testing.T) {
		router := newTestRouter(newTestBoltStore(t), &Config{})
		res, _ := doRequest(t, router, http.MethodPut, BooksPath+"/"+testBookID, `{"name":"Ghost"}`)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		res, _ = doRequest(t, router, http.MethodGet, BooksPath+"/"+testBookID, "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)

		res, _ = doRequest(t, router, http.MethodPost, BooksPath, `{"name":"Dune","price":12.5,"category":"Fiction"}`)
		location := res.Header.Get("Location")
		res, _ = doRequest(t, router, http.MethodPut, location, `{"name":"Dune Messiah","price":9,"category":"Fiction"}`)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
		res, data := doRequest(t, router, http.MethodGet, location, "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, string(data), "Dune Messiah")

		for i := 0; i < 2; i++ {
			res, _ = doRequest(t, router, http.MethodDelete, location, "")
			assert.Equal(t, http.StatusNoContent, res.StatusCode)
		}
		res, _ = doRequest(t, router, http.MethodGet, location, "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("maintenance blocks public routes only", func(t *testing.T) {
		router := newTestRouter(newTestBoltStore(t), &Config{OpsEndpointsEnable: true})
		res, _ := doRequest(t, router, http.MethodGet, "/ops/maintenance?status=enable&msg=upgrade", "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		res, _ = doRequest(t, router, http.MethodGet, BooksPath, "")
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
		res, _ = doRequest(t, router, http.MethodGet, "/ops/maintenance?status=disable", "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		res, _ = doRequest(t, router, http.MethodGet, BooksPath, "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})
}

// TestTimeoutAfter ensures slow requests are answered with 503 by the timeout handler.
func TestTimeoutAfter(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	w := httptest.NewRecorder()
	TimeoutAfter(slow, 10*time.Millisecond).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Timeout.")
}
