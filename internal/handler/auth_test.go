package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/football-training-center/internal/config"
    "github.com/iliyamo/football-training-center/internal/utils"
)

const testSecret = "auth-test-secret"

func postWithBearer(t *testing.T, h echo.HandlerFunc, token, body string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    require.NoError(t, h(e.NewContext(req, rec)))
    return rec
}

// Bearer checks and body validation run before any query; the handler
// under test carries no repositories.
func TestChangePasswordValidation(t *testing.T) {
    h := &AuthHandler{Cfg: config.Config{JWTSecret: testSecret}}

    access, err := utils.NewAccessToken(testSecret, 7, "PLAYER", 5)
    require.NoError(t, err)
    forged, err := utils.NewAccessToken("other-secret", 7, "PLAYER", 5)
    require.NoError(t, err)

    t.Run("missing bearer", func(t *testing.T) {
        rec := postWithBearer(t, h.ChangePassword, "", `{"old_password":"a","new_password":"longenough"}`)
        assert.Equal(t, http.StatusUnauthorized, rec.Code)
    })
    t.Run("token signed with wrong secret", func(t *testing.T) {
        rec := postWithBearer(t, h.ChangePassword, forged.Token, `{"old_password":"a","new_password":"longenough"}`)
        assert.Equal(t, http.StatusUnauthorized, rec.Code)
    })
    t.Run("missing fields", func(t *testing.T) {
        rec := postWithBearer(t, h.ChangePassword, access.Token, `{"old_password":"a"}`)
        assert.Equal(t, http.StatusBadRequest, rec.Code)
    })
    t.Run("new password too short", func(t *testing.T) {
        rec := postWithBearer(t, h.ChangePassword, access.Token, `{"old_password":"a","new_password":"short"}`)
        assert.Equal(t, http.StatusBadRequest, rec.Code)
    })
}
