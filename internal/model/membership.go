package model

import "time"

// Membership is a recurring payment plan owned by a user.  Unlike a
// Bundle it carries no per-session credits; it represents the subscription
// itself and can be frozen up to MaxMembershipFreezes times.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – subscribing user.
//  PlanName    – name of the plan (e.g. "Monthly Unlimited").
//  StartDate   – when the membership began.
//  RenewalDate – next renewal; a membership past this date is expired.
//  Active      – false while frozen or terminated.
//  FreezeCount – how many times the membership has been frozen.
//  FrozenAt    – when the current freeze started (null while running).
type Membership struct {
    ID          uint64     // memberships.id
    OwnerID     uint64     // memberships.owner_id
    PlanName    string     // memberships.plan_name
    StartDate   time.Time  // memberships.start_date
    RenewalDate time.Time  // memberships.renewal_date
    Active      bool       // memberships.active
    FreezeCount uint32     // memberships.freeze_count
    FrozenAt    *time.Time // memberships.frozen_at (nullable)
}

// MaxMembershipFreezes caps how often a single membership may be frozen.
const MaxMembershipFreezes = 3
