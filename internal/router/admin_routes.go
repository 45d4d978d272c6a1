package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/handler"
    "github.com/iliyamo/football-training-center/internal/middleware"
    "github.com/iliyamo/football-training-center/internal/model"
)

// AdminHandlers bundles the handlers mounted on admin-only routes.
type AdminHandlers struct {
    Users     *handler.UserHandler
    Bookings  *handler.BookingHandler
    Bundles   *handler.BundleHandler
    Discounts *handler.DiscountHandler
}

// RegisterAdmin registers administrator endpoints under /v1: account
// management, guardian declarations, discount administration and the
// cross-user views.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RolesAdmin...),
    )

    // ---- Users ----
    g.GET("/users", h.Users.List)
    g.POST("/users", h.Users.Create)
    g.GET("/users/:id", h.Users.Get)
    g.PUT("/users/:id/role", h.Users.UpdateRole)
    g.PATCH("/users/:id/role", h.Users.UpdateRole) // allow partial-update clients
    g.PUT("/users/:id/active", h.Users.SetActive)
    g.GET("/users/:id/bookings", h.Bookings.UserBookings)

    // ---- Guardians ----
    g.POST("/users/:id/guardians", h.Users.AddGuardian)

    // ---- Bundles ----
    g.GET("/bundles", h.Bundles.List)

    // ---- Discounts ----
    g.POST("/discounts", h.Discounts.Create)
    g.GET("/discounts", h.Discounts.List)
    g.PUT("/discounts/:id/active", h.Discounts.SetActive)
}
