package model

import "time"

// BookingStatus enumerates the states of a booking.  A booking starts
// ACTIVE and may transition to CANCELLED exactly once; the transition
// never reverses.
type BookingStatus string

const (
    BookingActive    BookingStatus = "ACTIVE"
    BookingCancelled BookingStatus = "CANCELLED"
)

// Booking records a confirmed reservation of one capacity unit in a
// session by a user.  The price paid is a snapshot computed at booking
// time; later changes to the session price or the discount never affect
// it.
//
// Fields:
//  ID             – primary key identifier.
//  Reference      – client-facing UUID, also used as the event key.
//  UserID         – user the spot is booked for.
//  SessionID      – session being booked.
//  BundleID       – credit bundle consumed by this booking, if any.
//  Status         – ACTIVE or CANCELLED.
//  PricePaidCents – final price after discount, in cents.
//  DiscountCode   – discount code applied at booking time, if any.
//  BookedAt       – creation timestamp.
//  CancelledAt    – when the booking was cancelled (null while active).
type Booking struct {
    ID             uint64        // bookings.id
    Reference      string        // bookings.reference
    UserID         uint64        // bookings.user_id
    SessionID      uint64        // bookings.session_id
    BundleID       *uint64       // bookings.bundle_id (nullable)
    Status         BookingStatus // bookings.status
    PricePaidCents uint32        // bookings.price_paid_cents
    DiscountCode   *string       // bookings.discount_code (nullable)
    BookedAt       time.Time     // bookings.booked_at
    CancelledAt    *time.Time    // bookings.cancelled_at (nullable)
}
