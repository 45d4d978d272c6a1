package booking

import "errors"

// Sentinel errors returned by Book and Cancel.  Handlers map each one
// to a fixed HTTP status, so their identity is part of the API.
var (
    ErrNotFound           = errors.New("not found")
    ErrForbidden          = errors.New("forbidden")
    ErrNotGuardian        = errors.New("not a guardian of this player")
    ErrAlreadyBooked      = errors.New("user already has an active booking for this session")
    ErrSessionFull        = errors.New("session is full")
    ErrSessionStarted     = errors.New("session has already started")
    ErrInvalidDiscount    = errors.New("discount code is invalid or not currently valid")
    ErrInsufficientCredit = errors.New("bundle has no sessions left")
    ErrBundleExpired      = errors.New("bundle has expired")
    ErrNotBundleOwner     = errors.New("bundle belongs to another user")
    ErrAlreadyCancelled   = errors.New("booking is already cancelled")
)
