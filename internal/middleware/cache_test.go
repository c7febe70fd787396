package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/minhhua/figure-store/internal/config"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestResponseCacheHit(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20}

	calls := 0
	e := echo.New()
	e.GET("/v1/products", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, ResponseCache(cfg, rdb))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/products", nil))

	if calls != 1 {
		t.Errorf("handler invoked %d times, want 1 (second request served from cache)", calls)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestResponseCacheKeyIncludesQuery(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20}

	e := echo.New()
	e.GET("/v1/products", func(c echo.Context) error {
		return c.String(http.StatusOK, c.QueryParam("category"))
	}, ResponseCache(cfg, rdb))

	one := httptest.NewRecorder()
	e.ServeHTTP(one, httptest.NewRequest(http.MethodGet, "/v1/products?category=1", nil))
	two := httptest.NewRecorder()
	e.ServeHTTP(two, httptest.NewRequest(http.MethodGet, "/v1/products?category=2", nil))

	if one.Body.String() == two.Body.String() {
		t.Error("different query strings shared one cache entry")
	}
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20}

	calls := 0
	e := echo.New()
	e.GET("/v1/products/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}, ResponseCache(cfg, rdb))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/9", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	}
	if calls != 2 {
		t.Errorf("handler invoked %d times, want 2 (non-200 responses are not cached)", calls)
	}
}

func TestResponseCacheDisabledWithoutRedis(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}
	calls := 0
	e := echo.New()
	e.GET("/v1/products", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "ok")
	}, ResponseCache(cfg, nil))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Header().Get("X-Cache") != "" {
			t.Error("X-Cache header set while cache disabled")
		}
	}
	if calls != 2 {
		t.Errorf("handler invoked %d times, want 2", calls)
	}
}

func TestResponseCachePassesNonGET(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}
	e := echo.New()
	e.POST("/v1/products", func(c echo.Context) error {
		return c.String(http.StatusCreated, "created")
	}, ResponseCache(cfg, rdb))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader("{}")))
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}
