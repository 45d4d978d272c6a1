package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/service/booking"
)

// BookingRepo is the MySQL backing of the booking flow.  It implements
// booking.Store: every decision the service makes runs inside one
// transaction here, with SELECT ... FOR UPDATE on the session row so
// two concurrent attempts against the last spot serialize and the
// loser sees the winner's booking.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// InTx opens a transaction, hands a booking.Tx to fn and commits when
// fn returns nil.  Any error rolls the transaction back.
func (r *BookingRepo) InTx(ctx context.Context, fn func(booking.Tx) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&bookingTx{ctx: ctx, tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// bookingTx adapts one *sql.Tx to the row operations the booking
// service needs.
type bookingTx struct {
    ctx context.Context
    tx  *sql.Tx
}

func (t *bookingTx) SessionForUpdate(id uint64) (*model.Session, error) {
    var s model.Session
    var typ string
    var coachID sql.NullInt64
    err := t.tx.QueryRowContext(t.ctx,
        `SELECT id, name, session_type, coach_id, starts_at, duration_min, price_cents, capacity
         FROM sessions WHERE id = ? FOR UPDATE`, id).
        Scan(&s.ID, &s.Name, &typ, &coachID, &s.StartsAt, &s.DurationMin, &s.PriceCents, &s.Capacity)
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    s.Type = model.SessionType(typ)
    if coachID.Valid {
        cid := uint64(coachID.Int64)
        s.CoachID = &cid
    }
    return &s, nil
}

func (t *bookingTx) ActiveCount(sessionID uint64) (uint32, error) {
    var n uint32
    err := t.tx.QueryRowContext(t.ctx,
        "SELECT COUNT(*) FROM bookings WHERE session_id=? AND status='ACTIVE'", sessionID).Scan(&n)
    return n, err
}

func (t *bookingTx) HasActive(userID, sessionID uint64) (bool, error) {
    var one int
    err := t.tx.QueryRowContext(t.ctx,
        "SELECT 1 FROM bookings WHERE user_id=? AND session_id=? AND status='ACTIVE' LIMIT 1",
        userID, sessionID).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

func (t *bookingTx) DiscountByCode(code string) (*model.Discount, error) {
    var d model.Discount
    err := t.tx.QueryRowContext(t.ctx,
        `SELECT id, code, description, percentage, amount_cents, valid_from, valid_until, active
         FROM discounts WHERE code = ?`, code).
        Scan(&d.ID, &d.Code, &d.Description, &d.Percentage, &d.AmountCents, &d.ValidFrom, &d.ValidUntil, &d.Active)
    if err == sql.ErrNoRows {
        return nil, booking.ErrInvalidDiscount
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}

func (t *bookingTx) BundleForUpdate(id uint64) (*model.Bundle, error) {
    var b model.Bundle
    err := t.tx.QueryRowContext(t.ctx,
        `SELECT id, owner_id, sessions_included, sessions_used, expiry_date
         FROM bundles WHERE id = ? FOR UPDATE`, id).
        Scan(&b.ID, &b.OwnerID, &b.SessionsIncluded, &b.SessionsUsed, &b.ExpiryDate)
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &b, nil
}

func (t *bookingTx) ConsumeCredit(bundleID uint64) error {
    _, err := t.tx.ExecContext(t.ctx,
        "UPDATE bundles SET sessions_used = sessions_used + 1 WHERE id=? AND sessions_used < sessions_included",
        bundleID)
    return err
}

func (t *bookingTx) RefundCredit(bundleID uint64) error {
    _, err := t.tx.ExecContext(t.ctx,
        "UPDATE bundles SET sessions_used = sessions_used - 1 WHERE id=? AND sessions_used > 0",
        bundleID)
    return err
}

func (t *bookingTx) InsertBooking(b *model.Booking) error {
    res, err := t.tx.ExecContext(t.ctx,
        `INSERT INTO bookings (reference, user_id, session_id, bundle_id, status, price_paid_cents, discount_code, booked_at)
         VALUES (?,?,?,?,?,?,?,?)`,
        b.Reference, b.UserID, b.SessionID, b.BundleID, string(b.Status),
        b.PricePaidCents, b.DiscountCode, b.BookedAt.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

func (t *bookingTx) BookingForUpdate(id uint64) (*model.Booking, error) {
    var b model.Booking
    var status string
    var bundleID sql.NullInt64
    var code sql.NullString
    var cancelled sql.NullTime
    err := t.tx.QueryRowContext(t.ctx,
        `SELECT id, reference, user_id, session_id, bundle_id, status, price_paid_cents, discount_code, booked_at, cancelled_at
         FROM bookings WHERE id = ? FOR UPDATE`, id).
        Scan(&b.ID, &b.Reference, &b.UserID, &b.SessionID, &bundleID, &status,
            &b.PricePaidCents, &code, &b.BookedAt, &cancelled)
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    b.Status = model.BookingStatus(status)
    if bundleID.Valid {
        bid := uint64(bundleID.Int64)
        b.BundleID = &bid
    }
    if code.Valid {
        c := code.String
        b.DiscountCode = &c
    }
    if cancelled.Valid {
        at := cancelled.Time
        b.CancelledAt = &at
    }
    return &b, nil
}

func (t *bookingTx) MarkCancelled(bookingID uint64, at time.Time) error {
    _, err := t.tx.ExecContext(t.ctx,
        "UPDATE bookings SET status='CANCELLED', cancelled_at=? WHERE id=? AND status='ACTIVE'",
        at.UTC().Format("2006-01-02 15:04:05"), bookingID)
    return err
}

// BookingView is the client-facing shape of a booking in listings,
// joined with the session it reserves.
type BookingView struct {
    ID             uint64     `json:"id"`
    Reference      string     `json:"reference"`
    UserID         uint64     `json:"user_id"`
    SessionID      uint64     `json:"session_id"`
    SessionName    string     `json:"session_name"`
    StartsAt       time.Time  `json:"starts_at"`
    Status         string     `json:"status"`
    PricePaidCents uint32     `json:"price_paid_cents"`
    DiscountCode   *string    `json:"discount_code,omitempty"`
    BundleID       *uint64    `json:"bundle_id,omitempty"`
    BookedAt       time.Time  `json:"booked_at"`
    CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

const bookingViewQ = `SELECT b.id, b.reference, b.user_id, b.session_id, s.name, s.starts_at,
               b.status, b.price_paid_cents, b.discount_code, b.bundle_id, b.booked_at, b.cancelled_at
        FROM bookings b
        JOIN sessions s ON s.id = b.session_id`

func (r *BookingRepo) listViews(ctx context.Context, q string, args ...any) ([]BookingView, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]BookingView, 0)
    for rows.Next() {
        var v BookingView
        var code sql.NullString
        var bundleID sql.NullInt64
        var cancelled sql.NullTime
        if err := rows.Scan(&v.ID, &v.Reference, &v.UserID, &v.SessionID, &v.SessionName, &v.StartsAt,
            &v.Status, &v.PricePaidCents, &code, &bundleID, &v.BookedAt, &cancelled); err != nil {
            return nil, err
        }
        if code.Valid {
            c := code.String
            v.DiscountCode = &c
        }
        if bundleID.Valid {
            bid := uint64(bundleID.Int64)
            v.BundleID = &bid
        }
        if cancelled.Valid {
            at := cancelled.Time
            v.CancelledAt = &at
        }
        out = append(out, v)
    }
    return out, rows.Err()
}

// ListByUser returns every booking belonging to the user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingView, error) {
    return r.listViews(ctx, bookingViewQ+" WHERE b.user_id = ? ORDER BY b.booked_at DESC", userID)
}

// ListBySession returns the roster of active bookings for one session,
// the view coaches take attendance from.
func (r *BookingRepo) ListBySession(ctx context.Context, sessionID uint64) ([]BookingView, error) {
    return r.listViews(ctx,
        bookingViewQ+" WHERE b.session_id = ? AND b.status = 'ACTIVE' ORDER BY b.booked_at", sessionID)
}
