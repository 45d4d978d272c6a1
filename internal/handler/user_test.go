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

func patchJSONAs(t *testing.T, h echo.HandlerFunc, uid uint64, body string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("user_id", uid)
    require.NoError(t, h(c))
    return rec
}

// Invalid profile updates are rejected before any query runs; the
// handler under test carries no repository.
func TestUpdateMeValidation(t *testing.T) {
    h := &UserHandler{}

    tests := []struct {
        name string
        body string
    }{
        {"empty patch", `{}`},
        {"blank full_name", `{"full_name":"   "}`},
        {"email without at sign", `{"email":"not-an-email"}`},
        {"malformed birth_date", `{"birth_date":"31-12-2000"}`},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            rec := patchJSONAs(t, h.UpdateMe, 1, tc.body)
            assert.Equal(t, http.StatusBadRequest, rec.Code)
        })
    }
}

func TestUpdateMeRequiresAuth(t *testing.T) {
    h := &UserHandler{}
    rec := postJSON(t, h.UpdateMe, `{"full_name":"New Name"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
