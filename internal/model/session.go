package model

import "time"

// SessionType enumerates the kinds of training sessions offered by the
// center.  Stored as strings in the sessions table.
type SessionType string

const (
    SessionGroup    SessionType = "GROUP"      // regular group training
    SessionOneOnOne SessionType = "ONE_ON_ONE" // individual coaching slot
    SessionEvent    SessionType = "EVENT"      // camps, tournaments, open days
    SessionRecovery SessionType = "RECOVERY"   // recovery / physio session
)

// ValidSessionType reports whether s names a known session type.
func ValidSessionType(s string) bool {
    switch SessionType(s) {
    case SessionGroup, SessionOneOnOne, SessionEvent, SessionRecovery:
        return true
    }
    return false
}

// Session represents a schedulable training slot with fixed capacity and
// price.  A session becomes read-only once any booking exists against it.
// The number of free spots is never stored; it is derived from the count
// of active bookings inside the booking transaction to avoid drift.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable session title.
//  Type        – one of the SessionType values.
//  CoachID     – coach running the session, or null when unassigned.
//  StartsAt    – when the session begins (UTC).
//  DurationMin – length in minutes (15..480).
//  PriceCents  – price per spot in cents (≥ 0).
//  Capacity    – maximum number of active bookings (1..100).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Session struct {
    ID          uint64      // sessions.id
    Name        string      // sessions.name
    Type        SessionType // sessions.session_type
    CoachID     *uint64     // sessions.coach_id (nullable)
    StartsAt    time.Time   // sessions.starts_at
    DurationMin uint32      // sessions.duration_min
    PriceCents  uint32      // sessions.price_cents
    Capacity    uint32      // sessions.capacity
    CreatedAt   time.Time   // sessions.created_at
    UpdatedAt   time.Time   // sessions.updated_at
}
