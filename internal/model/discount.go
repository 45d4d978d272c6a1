package model

import "time"

// Discount is a time-bounded code that reduces the price charged at
// booking time.  A discount is either percentage-based or a fixed amount;
// exactly one of Percentage and AmountCents is non-zero.  Discounts are
// resolved against their validity window at the moment of booking and are
// never applied retroactively.
//
// Fields:
//  ID          – primary key identifier.
//  Code        – unique uppercase code entered by the client.
//  Description – human readable summary shown in listings.
//  Percentage  – percentage reduction in [0,100], or 0 when fixed.
//  AmountCents – fixed reduction in cents, or 0 when percentage.
//  ValidFrom   – start of the validity window (inclusive).
//  ValidUntil  – end of the validity window (inclusive).
//  Active      – manual kill switch independent of the window.
type Discount struct {
    ID          uint64    // discounts.id
    Code        string    // discounts.code
    Description string    // discounts.description
    Percentage  uint32    // discounts.percentage
    AmountCents uint32    // discounts.amount_cents
    ValidFrom   time.Time // discounts.valid_from
    ValidUntil  time.Time // discounts.valid_until
    Active      bool      // discounts.active
}
