package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/repository"
)

// Session duration and capacity bounds enforced at the API edge.
const (
    minDurationMin = 15
    maxDurationMin = 480
    maxCapacity    = 100
)

// SessionHandler exposes session CRUD plus the availability and stats
// views. Create/update/delete are staff operations.
type SessionHandler struct {
    Sessions *repository.SessionRepo
    Bookings *repository.BookingRepo
}

func NewSessionHandler(s *repository.SessionRepo, b *repository.BookingRepo) *SessionHandler {
    return &SessionHandler{Sessions: s, Bookings: b}
}

type sessionReq struct {
    Name        string  `json:"name"`
    Type        string  `json:"session_type"`
    CoachID     *uint64 `json:"coach_id"`
    StartsAt    string  `json:"starts_at"` // RFC 3339
    DurationMin uint32  `json:"duration_min"`
    PriceCents  uint32  `json:"price_cents"`
    Capacity    uint32  `json:"capacity"`
}

func (req *sessionReq) toModel() (*model.Session, string) {
    req.Name = strings.TrimSpace(req.Name)
    req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
    if req.Name == "" {
        return nil, "name required"
    }
    if !model.ValidSessionType(req.Type) {
        return nil, "unknown session_type"
    }
    startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
    if err != nil {
        return nil, "starts_at must be RFC 3339"
    }
    if req.DurationMin < minDurationMin || req.DurationMin > maxDurationMin {
        return nil, "duration_min out of range"
    }
    if req.Capacity < 1 || req.Capacity > maxCapacity {
        return nil, "capacity out of range"
    }
    return &model.Session{
        Name:        req.Name,
        Type:        model.SessionType(req.Type),
        CoachID:     req.CoachID,
        StartsAt:    startsAt.UTC(),
        DurationMin: req.DurationMin,
        PriceCents:  req.PriceCents,
        Capacity:    req.Capacity,
    }, ""
}

// Create schedules a new session.
func (h *SessionHandler) Create(c echo.Context) error {
    var req sessionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    s, msg := req.toModel()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Sessions.Create(ctx, s)
    if err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "coach not found or not a coach"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Get returns one session with derived availability.
func (h *SessionHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    d, err := h.Sessions.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrSessionNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
    }
    return c.JSON(http.StatusOK, d)
}

// List returns sessions; ?type=, ?from=, ?to= (RFC 3339) and
// ?upcoming=true narrow the result.
func (h *SessionHandler) List(c echo.Context) error {
    var f repository.SessionFilter
    if typ := strings.ToUpper(strings.TrimSpace(c.QueryParam("type"))); typ != "" {
        if !model.ValidSessionType(typ) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown session type"})
        }
        f.Type = typ
    }
    if v := c.QueryParam("from"); v != "" {
        t, err := time.Parse(time.RFC3339, v)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC 3339"})
        }
        f.From = &t
    }
    if v := c.QueryParam("to"); v != "" {
        t, err := time.Parse(time.RFC3339, v)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC 3339"})
        }
        f.To = &t
    }
    f.Upcoming = c.QueryParam("upcoming") == "true"

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sessions, err := h.Sessions.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sessions failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// Available returns future sessions with free spots.
func (h *SessionHandler) Available(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sessions, err := h.Sessions.ListAvailable(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sessions failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// Update rewrites a session. Rejected with 409 once any booking exists.
func (h *SessionHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req sessionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    s, msg := req.toModel()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    s.ID = id

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Sessions.Update(ctx, s); err != nil {
        switch err {
        case repository.ErrSessionNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        case repository.ErrConflict:
            return c.JSON(http.StatusConflict, echo.Map{"error": "session has bookings and is read-only"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update session failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Delete removes a session. Rejected with 409 once any booking exists.
func (h *SessionHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Sessions.Delete(ctx, id); err != nil {
        switch err {
        case repository.ErrSessionNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        case repository.ErrConflict:
            return c.JSON(http.StatusConflict, echo.Map{"error": "session has bookings and is read-only"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete session failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Roster returns the active bookings of one session, for staff taking
// attendance.
func (h *SessionHandler) Roster(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    detail, err := h.Sessions.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrSessionNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
    }
    // Coaches only see rosters for their own sessions.
    if getRole(c) == model.RoleCoach {
        uid, err := getUserID(c)
        if err != nil || detail.CoachID == nil || *detail.CoachID != uid {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your session"})
        }
    }
    bookings, err := h.Bookings.ListBySession(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Stats returns center-wide session aggregates.
func (h *SessionHandler) Stats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    st, err := h.Sessions.Stats(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
    }
    return c.JSON(http.StatusOK, st)
}
