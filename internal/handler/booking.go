package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/queue"
    "github.com/iliyamo/football-training-center/internal/repository"
    queue_publisher "github.com/iliyamo/football-training-center/internal/service"
    "github.com/iliyamo/football-training-center/internal/service/booking"
)

// BookingHandler is the HTTP edge of the booking flow. All decisions
// live in the booking service; this layer binds requests, maps service
// errors to status codes and publishes lifecycle events after commit.
type BookingHandler struct {
    Svc      *booking.Service
    Bookings *repository.BookingRepo
    Sessions *repository.SessionRepo
}

func NewBookingHandler(svc *booking.Service, b *repository.BookingRepo, s *repository.SessionRepo) *BookingHandler {
    return &BookingHandler{Svc: svc, Bookings: b, Sessions: s}
}

type bookReq struct {
    SessionID    uint64 `json:"session_id"`
    ForUserID    uint64 `json:"for_user_id"`  // 0 = book for myself
    DiscountCode string `json:"discount_code"`
    BundleID     uint64 `json:"bundle_id"` // 0 = pay full price
}

type bookingResp struct {
    ID             uint64     `json:"id"`
    Reference      string     `json:"reference"`
    UserID         uint64     `json:"user_id"`
    SessionID      uint64     `json:"session_id"`
    Status         string     `json:"status"`
    PricePaidCents uint32     `json:"price_paid_cents"`
    DiscountCode   *string    `json:"discount_code,omitempty"`
    BundleID       *uint64    `json:"bundle_id,omitempty"`
    BookedAt       time.Time  `json:"booked_at"`
    CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

func toBookingResp(b *model.Booking) bookingResp {
    return bookingResp{
        ID: b.ID, Reference: b.Reference, UserID: b.UserID, SessionID: b.SessionID,
        Status: string(b.Status), PricePaidCents: b.PricePaidCents,
        DiscountCode: b.DiscountCode, BundleID: b.BundleID,
        BookedAt: b.BookedAt, CancelledAt: b.CancelledAt,
    }
}

// bookingErrStatus maps booking service errors to HTTP status codes.
func bookingErrStatus(err error) int {
    switch err {
    case booking.ErrNotFound:
        return http.StatusNotFound
    case booking.ErrForbidden, booking.ErrNotGuardian, booking.ErrNotBundleOwner:
        return http.StatusForbidden
    case booking.ErrAlreadyBooked, booking.ErrSessionFull, booking.ErrSessionStarted, booking.ErrAlreadyCancelled:
        return http.StatusConflict
    case booking.ErrInvalidDiscount, booking.ErrBundleExpired:
        return http.StatusBadRequest
    case booking.ErrInsufficientCredit:
        return http.StatusPaymentRequired
    }
    return http.StatusInternalServerError
}

// Book reserves a spot in a session.
func (h *BookingHandler) Book(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req bookReq
    if err := c.Bind(&req); err != nil || req.SessionID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    b, err := h.Svc.Book(ctx, booking.BookRequest{
        ActorID:      uid,
        ActorRole:    getRole(c),
        ForUserID:    req.ForUserID,
        SessionID:    req.SessionID,
        DiscountCode: req.DiscountCode,
        BundleID:     req.BundleID,
    })
    if err != nil {
        if st := bookingErrStatus(err); st != http.StatusInternalServerError {
            return c.JSON(st, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }

    h.publish(ctx, b, queue_publisher.PublishBookingConfirmed)
    return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Cancel cancels a booking. The spot frees immediately; whether a
// bundle credit comes back depends on the refund cutoff.
func (h *BookingHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    b, err := h.Svc.Cancel(ctx, booking.CancelRequest{
        ActorID:   uid,
        ActorRole: getRole(c),
        BookingID: id,
    })
    if err != nil {
        if st := bookingErrStatus(err); st != http.StatusInternalServerError {
            return c.JSON(st, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }

    h.publish(ctx, b, queue_publisher.PublishBookingCancelled)
    return c.NoContent(http.StatusNoContent)
}

// MyBookings returns the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bookings, err := h.Bookings.ListByUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// UserBookings returns another user's bookings, admin view.
func (h *BookingHandler) UserBookings(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bookings, err := h.Bookings.ListByUser(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// publish sends a lifecycle event for the booking. Failures are logged
// by the publisher and never affect the response; the booking is
// already committed.
func (h *BookingHandler) publish(ctx context.Context, b *model.Booking, fn func(context.Context, queue.BookingEvent) error) {
    ev := queue.BookingEvent{
        BookingID:      b.ID,
        Reference:      b.Reference,
        UserID:         b.UserID,
        SessionID:      b.SessionID,
        PricePaidCents: b.PricePaidCents,
        OccurredAt:     time.Now().UTC().Format(time.RFC3339),
    }
    if b.DiscountCode != nil {
        ev.DiscountCode = *b.DiscountCode
    }
    if b.BundleID != nil {
        ev.BundleID = *b.BundleID
    }
    if d, err := h.Sessions.GetByID(ctx, b.SessionID); err == nil {
        ev.SessionName = d.Name
        ev.SessionType = d.Type
        ev.StartsAt = d.StartsAt.UTC().Format(time.RFC3339)
    }
    go func() { _ = fn(context.Background(), ev) }()
}
