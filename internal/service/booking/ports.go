package booking

import (
    "context"
    "time"

    "github.com/iliyamo/football-training-center/internal/model"
)

// Store opens transactions against the booking tables.  The MySQL
// implementation lives in the repository package; tests substitute an
// in-memory fake.
type Store interface {
    // InTx runs fn inside a single transaction.  A non-nil error from
    // fn rolls the transaction back and is returned unchanged.
    InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of row operations the booking flow needs inside one
// transaction.  SessionForUpdate and BundleForUpdate take row locks so
// that concurrent bookings against the same session serialize.
type Tx interface {
    // SessionForUpdate locks and returns the session row, or
    // ErrNotFound when it does not exist.
    SessionForUpdate(id uint64) (*model.Session, error)

    // ActiveCount returns the number of ACTIVE bookings for the
    // session.  Called only after SessionForUpdate, so the count is
    // stable for the rest of the transaction.
    ActiveCount(sessionID uint64) (uint32, error)

    // HasActive reports whether the user already holds an ACTIVE
    // booking for the session.
    HasActive(userID, sessionID uint64) (bool, error)

    // DiscountByCode returns the discount row for a code, or
    // ErrInvalidDiscount when no such code exists.
    DiscountByCode(code string) (*model.Discount, error)

    // BundleForUpdate locks and returns the bundle row, or ErrNotFound
    // when it does not exist.
    BundleForUpdate(id uint64) (*model.Bundle, error)

    // ConsumeCredit increments sessions_used on the bundle.  The
    // caller has already verified credit remains under the row lock.
    ConsumeCredit(bundleID uint64) error

    // RefundCredit decrements sessions_used, never below zero.
    RefundCredit(bundleID uint64) error

    // InsertBooking persists a new ACTIVE booking and fills in its ID.
    InsertBooking(b *model.Booking) error

    // BookingForUpdate locks and returns the booking row, or
    // ErrNotFound when it does not exist.
    BookingForUpdate(id uint64) (*model.Booking, error)

    // MarkCancelled flips the booking to CANCELLED at the given time.
    MarkCancelled(bookingID uint64, at time.Time) error
}

// UserDirectory answers identity questions the booking flow needs
// before it opens a transaction.
type UserDirectory interface {
    // UserByID returns the user, or nil when no such user exists.
    UserByID(ctx context.Context, id uint64) (*model.User, error)

    // IsGuardian reports whether parentID is a registered guardian of
    // childID.
    IsGuardian(ctx context.Context, parentID, childID uint64) (bool, error)
}
