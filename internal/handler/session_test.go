package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    require.NoError(t, h(e.NewContext(req, rec)))
    return rec
}

// Validation failures must be rejected at the edge, before any query
// runs; the handler under test carries no repositories.
func TestSessionCreateValidation(t *testing.T) {
    h := &SessionHandler{}

    tests := []struct {
        name string
        body string
    }{
        {"missing name", `{"session_type":"GROUP","starts_at":"2025-07-01T10:00:00Z","duration_min":60,"capacity":10}`},
        {"unknown type", `{"name":"Drills","session_type":"YOGA","starts_at":"2025-07-01T10:00:00Z","duration_min":60,"capacity":10}`},
        {"bad timestamp", `{"name":"Drills","session_type":"GROUP","starts_at":"tomorrow","duration_min":60,"capacity":10}`},
        {"duration too short", `{"name":"Drills","session_type":"GROUP","starts_at":"2025-07-01T10:00:00Z","duration_min":5,"capacity":10}`},
        {"duration too long", `{"name":"Drills","session_type":"GROUP","starts_at":"2025-07-01T10:00:00Z","duration_min":600,"capacity":10}`},
        {"zero capacity", `{"name":"Drills","session_type":"GROUP","starts_at":"2025-07-01T10:00:00Z","duration_min":60,"capacity":0}`},
        {"capacity too large", `{"name":"Drills","session_type":"GROUP","starts_at":"2025-07-01T10:00:00Z","duration_min":60,"capacity":500}`},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            rec := postJSON(t, h.Create, tc.body)
            assert.Equal(t, http.StatusBadRequest, rec.Code)
        })
    }
}

func TestSessionListRejectsBadFilters(t *testing.T) {
    h := &SessionHandler{}
    e := echo.New()

    req := httptest.NewRequest(http.MethodGet, "/?type=YOGA", nil)
    rec := httptest.NewRecorder()
    require.NoError(t, h.List(e.NewContext(req, rec)))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    req = httptest.NewRequest(http.MethodGet, "/?from=yesterday", nil)
    rec = httptest.NewRecorder()
    require.NoError(t, h.List(e.NewContext(req, rec)))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiscountCreateValidation(t *testing.T) {
    h := &DiscountHandler{}

    tests := []struct {
        name string
        body string
    }{
        {"missing code", `{"percentage":10,"valid_from":"2025-06-01T00:00:00Z","valid_until":"2025-07-01T00:00:00Z"}`},
        {"both kinds set", `{"code":"X","percentage":10,"amount_cents":500,"valid_from":"2025-06-01T00:00:00Z","valid_until":"2025-07-01T00:00:00Z"}`},
        {"neither kind set", `{"code":"X","valid_from":"2025-06-01T00:00:00Z","valid_until":"2025-07-01T00:00:00Z"}`},
        {"percentage over 100", `{"code":"X","percentage":150,"valid_from":"2025-06-01T00:00:00Z","valid_until":"2025-07-01T00:00:00Z"}`},
        {"window inverted", `{"code":"X","percentage":10,"valid_from":"2025-07-01T00:00:00Z","valid_until":"2025-06-01T00:00:00Z"}`},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            rec := postJSON(t, h.Create, tc.body)
            assert.Equal(t, http.StatusBadRequest, rec.Code)
        })
    }
}
