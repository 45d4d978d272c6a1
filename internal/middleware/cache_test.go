package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/football-training-center/internal/config"
)

func cacheCtx(target string) echo.Context {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/bundles/:id") // registered route pattern, shared by all ids
    return c
}

func defaultCacheCfg() config.CacheConfig {
    return config.CacheConfig{KeyStrategy: "route_query", Prefix: "cache"}
}

// Two resources served by the same parameterized route must never land
// on the same cache entry.
func TestCacheKeyDistinguishesResources(t *testing.T) {
    cfg := defaultCacheCfg()
    k7 := cacheKeyFrom(cfg, cacheCtx("/v1/bundles/7"))
    k8 := cacheKeyFrom(cfg, cacheCtx("/v1/bundles/8"))
    assert.NotEqual(t, k7, k8)
}

// One user's cached response must not be replayed to another: the key
// carries the authenticated user id from the JWT context.
func TestCacheKeyDistinguishesUsers(t *testing.T) {
    cfg := defaultCacheCfg()

    a := cacheCtx("/v1/my-bookings")
    a.Set("user_id", float64(1)) // JWT sub claim decodes as float64
    b := cacheCtx("/v1/my-bookings")
    b.Set("user_id", float64(2))

    assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))

    // Unauthenticated requests share one namespace distinct from users.
    anon := cacheCtx("/v1/my-bookings")
    assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, anon))
}

func TestCacheKeyHonorsQueryAndStrategy(t *testing.T) {
    cfg := defaultCacheCfg()
    plain := cacheKeyFrom(cfg, cacheCtx("/v1/sessions"))
    filtered := cacheKeyFrom(cfg, cacheCtx("/v1/sessions?upcoming=true"))
    assert.NotEqual(t, plain, filtered)

    cfg.KeyStrategy = "route"
    assert.Equal(t,
        cacheKeyFrom(cfg, cacheCtx("/v1/sessions")),
        cacheKeyFrom(cfg, cacheCtx("/v1/sessions?upcoming=true")),
        "route strategy ignores the query string")
}
