package config

import "time"

// BookingPolicy controls business rules applied by the booking service that
// are deliberately not hard-coded.  Currently it only covers the bundle
// credit refund on cancellation: a zero cutoff refunds unconditionally,
// while a positive cutoff denies the refund when the cancellation happens
// closer to the session start than the cutoff.  The capacity slot itself is
// always freed on cancellation regardless of this policy.
type BookingPolicy struct {
    RefundCutoff time.Duration // minimum time before session start for a credit refund
}

// LoadBookingPolicy reads the booking policy from the environment.
// BOOKING_REFUND_CUTOFF_MIN is optional and defaults to 0 (unconditional
// refund).  Negative values are clamped to 0.
func LoadBookingPolicy() BookingPolicy {
    cutoffMin := envInt("BOOKING_REFUND_CUTOFF_MIN", 0)
    if cutoffMin < 0 {
        cutoffMin = 0
    }
    return BookingPolicy{
        RefundCutoff: time.Duration(cutoffMin) * time.Minute,
    }
}
