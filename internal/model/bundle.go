package model

import "time"

// Bundle is a pre-paid block of session credits owned by a user.  One
// credit is consumed atomically with each booking that references the
// bundle and restored when such a booking is cancelled (subject to the
// refund policy).
//
// Fields:
//  ID               – primary key identifier.
//  OwnerID          – user the credits belong to.
//  SessionsIncluded – total credits purchased.
//  SessionsUsed     – credits consumed so far (never exceeds included).
//  ExpiryDate       – date after which remaining credits are unusable.
//  CreatedAt        – creation timestamp.
type Bundle struct {
    ID               uint64    // bundles.id
    OwnerID          uint64    // bundles.owner_id
    SessionsIncluded uint32    // bundles.sessions_included
    SessionsUsed     uint32    // bundles.sessions_used
    ExpiryDate       time.Time // bundles.expiry_date
    CreatedAt        time.Time // bundles.created_at
}

// CreditsLeft returns the number of unused credits in the bundle.
func (b *Bundle) CreditsLeft() uint32 {
    if b.SessionsUsed >= b.SessionsIncluded {
        return 0
    }
    return b.SessionsIncluded - b.SessionsUsed
}

// Expired reports whether the bundle can no longer be consumed at the
// given time.
func (b *Bundle) Expired(at time.Time) bool {
    return b.ExpiryDate.Before(at)
}
