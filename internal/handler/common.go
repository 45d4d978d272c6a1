package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/model"
)

// getUserID extracts the authenticated user's ID from context. JWT claims
// decode numbers as float64, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the authenticated user's role from context.
func getRole(c echo.Context) model.Role {
    if s, ok := c.Get("role").(string); ok {
        return model.Role(s)
    }
    return ""
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}
