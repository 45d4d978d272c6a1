package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/handler"
    "github.com/iliyamo/football-training-center/internal/middleware"
    "github.com/iliyamo/football-training-center/internal/model"
)

// MemberHandlers bundles the handlers mounted on member-facing routes.
type MemberHandlers struct {
    Auth        *handler.AuthHandler
    Users       *handler.UserHandler
    Teams       *handler.TeamHandler
    Sessions    *handler.SessionHandler
    Bookings    *handler.BookingHandler
    Bundles     *handler.BundleHandler
    Memberships *handler.MembershipHandler
    Discounts   *handler.DiscountHandler
}

// RegisterMember registers endpoints for any authenticated account
// under /v1.  Booking placement is restricted further to the roles
// that may book (admins, players booking themselves, parents booking
// their children); cancellation authorization lives in the booking
// service since ownership decides it.  The cache middleware wraps only
// the browse listings; per-user views must never be served from cache.
func RegisterMember(e *echo.Echo, h MemberHandlers, jwtSecret string, cache echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RolesMember...),
    )

    // ---- Profile ----
    g.GET("/me", h.Auth.Me)
    g.PATCH("/me", h.Users.UpdateMe)
    g.GET("/my-children", h.Users.MyChildren)
    g.GET("/my-teams", h.Teams.MyTeams)

    // ---- Session browsing (cacheable) ----
    g.GET("/sessions", h.Sessions.List, cache)
    g.GET("/sessions/available", h.Sessions.Available, cache)
    g.GET("/sessions/:id", h.Sessions.Get, cache)

    // ---- Bookings ----
    g.GET("/my-bookings", h.Bookings.MyBookings)
    g.DELETE("/bookings/:id", h.Bookings.Cancel)

    // ---- Bundles ----
    g.GET("/my-bundles", h.Bundles.Mine)
    g.GET("/bundles/:id", h.Bundles.Get)

    // ---- Memberships ----
    g.POST("/memberships", h.Memberships.Create)
    g.GET("/my-memberships", h.Memberships.Mine)
    g.POST("/memberships/:id/freeze", h.Memberships.Freeze)
    g.POST("/memberships/:id/unfreeze", h.Memberships.Unfreeze)

    // ---- Discounts ----
    g.GET("/discounts/active", h.Discounts.Active, cache)
    g.POST("/discounts/apply", h.Discounts.Apply)

    // Booking placement and bundle purchase require a booking-capable
    // role on top of authentication.
    b := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RolesBooking...),
    )
    b.POST("/bookings", h.Bookings.Book)
    b.POST("/bundles", h.Bundles.Create)
}
