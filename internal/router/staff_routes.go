package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/handler"
    "github.com/iliyamo/football-training-center/internal/middleware"
    "github.com/iliyamo/football-training-center/internal/model"
)

// RegisterStaff registers endpoints for coaches and admins under /v1.
// Staff schedule sessions, manage teams and rosters, and read the
// attendance and stats views.
func RegisterStaff(e *echo.Echo, s *handler.SessionHandler, t *handler.TeamHandler, u *handler.UserHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RolesStaff...),
    )

    // ---- Sessions ----
    g.POST("/sessions", s.Create)
    g.PUT("/sessions/:id", s.Update)
    g.DELETE("/sessions/:id", s.Delete)
    g.GET("/sessions/:id/bookings", s.Roster)
    g.GET("/sessions/stats", s.Stats)

    // ---- Teams ----
    g.POST("/teams", t.Create)
    g.GET("/teams", t.List)
    g.GET("/teams/stats", t.Stats)
    g.GET("/teams/:id", t.Get)
    g.PUT("/teams/:id/coach", t.AssignCoach)
    g.POST("/teams/:id/players", t.AddPlayers)
    g.DELETE("/teams/:id/players", t.RemovePlayers)

    // ---- Account listings for roster building ----
    g.GET("/coaches", u.Coaches)
    g.GET("/players", u.Players)
}
