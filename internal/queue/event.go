// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used for booking lifecycle events.
const (
    BookingConfirmedQueue = "booking.confirmed"
    BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published when a booking is confirmed or cancelled.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingEvent struct {
    BookingID      uint64 `json:"booking_id"`
    Reference      string `json:"reference"`
    UserID         uint64 `json:"user_id"`
    SessionID      uint64 `json:"session_id"`
    SessionName    string `json:"session_name"`
    SessionType    string `json:"session_type"`
    StartsAt       string `json:"starts_at"`
    PricePaidCents uint32 `json:"price_paid_cents"`
    DiscountCode   string `json:"discount_code,omitempty"`
    BundleID       uint64 `json:"bundle_id,omitempty"`
    OccurredAt     string `json:"occurred_at"`
}
