package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/football-training-center/internal/model"
)

// SessionRepo provides CRUD operations for training sessions.  Free
// capacity is always derived from the count of active bookings rather
// than a stored counter, so listings join against the bookings table.
// Mutations are rejected once any booking exists against the session;
// the session is then considered read-only.
type SessionRepo struct {
    db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

var ErrSessionNotFound = errors.New("session not found")

// SessionDetail is the client-facing shape of a session, including the
// derived booking count and free spots.
type SessionDetail struct {
    ID           uint64    `json:"id"`
    Name         string    `json:"name"`
    Type         string    `json:"session_type"`
    CoachID      *uint64   `json:"coach_id,omitempty"`
    CoachName    *string   `json:"coach_name,omitempty"`
    StartsAt     time.Time `json:"starts_at"`
    DurationMin  uint32    `json:"duration_min"`
    PriceCents   uint32    `json:"price_cents"`
    Capacity     uint32    `json:"capacity"`
    BookedCount  uint32    `json:"booked_count"`
    SpotsLeft    uint32    `json:"spots_left"`
    IsFull       bool      `json:"is_full"`
}

// SessionFilter narrows List results.  Zero values mean "no filter".
type SessionFilter struct {
    Type     string     // session type, already validated by the handler
    From     *time.Time // starts_at lower bound
    To       *time.Time // starts_at upper bound
    Upcoming bool       // only sessions starting after now
}

const sessionDetailQ = `SELECT s.id, s.name, s.session_type, s.coach_id, u.full_name,
               s.starts_at, s.duration_min, s.price_cents, s.capacity,
               (SELECT COUNT(*) FROM bookings b WHERE b.session_id = s.id AND b.status = 'ACTIVE')
        FROM sessions s
        LEFT JOIN users u ON u.id = s.coach_id`

func scanSessionDetail(row interface{ Scan(...any) error }) (SessionDetail, error) {
    var d SessionDetail
    var coachID sql.NullInt64
    var coachName sql.NullString
    err := row.Scan(&d.ID, &d.Name, &d.Type, &coachID, &coachName,
        &d.StartsAt, &d.DurationMin, &d.PriceCents, &d.Capacity, &d.BookedCount)
    if err != nil {
        return d, err
    }
    if coachID.Valid {
        cid := uint64(coachID.Int64)
        d.CoachID = &cid
    }
    if coachName.Valid {
        cn := coachName.String
        d.CoachName = &cn
    }
    if d.BookedCount < d.Capacity {
        d.SpotsLeft = d.Capacity - d.BookedCount
    }
    d.IsFull = d.SpotsLeft == 0
    return d, nil
}

// Create inserts a new session and returns its ID.  The coach, when
// given, must be an active COACH account.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) (uint64, error) {
    if s.CoachID != nil {
        var one int
        err := r.db.QueryRowContext(ctx,
            "SELECT 1 FROM users WHERE id=? AND role=? AND is_active=1 LIMIT 1",
            *s.CoachID, string(model.RoleCoach)).Scan(&one)
        if err == sql.ErrNoRows {
            return 0, ErrUserNotFound
        }
        if err != nil {
            return 0, err
        }
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO sessions (name, session_type, coach_id, starts_at, duration_min, price_cents, capacity)
         VALUES (?,?,?,?,?,?,?)`,
        s.Name, string(s.Type), s.CoachID, s.StartsAt.UTC().Format("2006-01-02 15:04:05"),
        s.DurationMin, s.PriceCents, s.Capacity)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID loads a single session with derived availability.  Returns
// ErrSessionNotFound when it does not exist.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*SessionDetail, error) {
    d, err := scanSessionDetail(r.db.QueryRowContext(ctx, sessionDetailQ+" WHERE s.id = ?", id))
    if err == sql.ErrNoRows {
        return nil, ErrSessionNotFound
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}

// List returns sessions matching the filter, ordered by start time.
func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]SessionDetail, error) {
    var (
        conds []string
        args  []any
    )
    if f.Type != "" {
        conds = append(conds, "s.session_type = ?")
        args = append(args, f.Type)
    }
    if f.From != nil {
        conds = append(conds, "s.starts_at >= ?")
        args = append(args, f.From.UTC().Format("2006-01-02 15:04:05"))
    }
    if f.To != nil {
        conds = append(conds, "s.starts_at <= ?")
        args = append(args, f.To.UTC().Format("2006-01-02 15:04:05"))
    }
    if f.Upcoming {
        conds = append(conds, "s.starts_at > UTC_TIMESTAMP()")
    }
    q := sessionDetailQ
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY s.starts_at"
    return r.listDetails(ctx, q, args...)
}

// ListAvailable returns future sessions that still have free spots, the
// browse view players book from.
func (r *SessionRepo) ListAvailable(ctx context.Context) ([]SessionDetail, error) {
    q := sessionDetailQ + ` WHERE s.starts_at > UTC_TIMESTAMP()
          AND (SELECT COUNT(*) FROM bookings b WHERE b.session_id = s.id AND b.status = 'ACTIVE') < s.capacity
        ORDER BY s.starts_at`
    return r.listDetails(ctx, q)
}

func (r *SessionRepo) listDetails(ctx context.Context, q string, args ...any) ([]SessionDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]SessionDetail, 0)
    for rows.Next() {
        d, err := scanSessionDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// HasBookings reports whether any booking (any status) exists against
// the session.  A session with bookings is read-only.
func (r *SessionRepo) HasBookings(ctx context.Context, id uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        "SELECT 1 FROM bookings WHERE session_id=? LIMIT 1", id).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// Update rewrites the mutable fields of a session.  Returns ErrConflict
// when the session already has bookings and ErrSessionNotFound when it
// does not exist.
func (r *SessionRepo) Update(ctx context.Context, s *model.Session) error {
    booked, err := r.HasBookings(ctx, s.ID)
    if err != nil {
        return err
    }
    if booked {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx,
        `UPDATE sessions SET name=?, session_type=?, coach_id=?, starts_at=?, duration_min=?, price_cents=?, capacity=?, updated_at=NOW()
         WHERE id=?`,
        s.Name, string(s.Type), s.CoachID, s.StartsAt.UTC().Format("2006-01-02 15:04:05"),
        s.DurationMin, s.PriceCents, s.Capacity, s.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        var one int
        if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id=? LIMIT 1", s.ID).Scan(&one); err == sql.ErrNoRows {
            return ErrSessionNotFound
        } else if err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a session.  Returns ErrConflict when bookings exist and
// ErrSessionNotFound when the session does not exist.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
    booked, err := r.HasBookings(ctx, id)
    if err != nil {
        return err
    }
    if booked {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSessionNotFound
    }
    return nil
}

// SessionStats aggregates center-wide session figures for staff
// dashboards.  Revenue sums the price snapshots of active bookings, not
// session list prices, so later price edits never distort it.
type SessionStats struct {
    TotalSessions    int    `json:"total_sessions"`
    UpcomingSessions int    `json:"upcoming_sessions"`
    PastSessions     int    `json:"past_sessions"`
    FullSessions     int    `json:"full_sessions"`
    TotalBookings    int    `json:"total_bookings"`
    RevenueCents     uint64 `json:"revenue_cents"`
}

// Stats computes SessionStats in a handful of aggregate queries.
func (r *SessionRepo) Stats(ctx context.Context) (*SessionStats, error) {
    var st SessionStats
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*),
                COALESCE(SUM(starts_at > UTC_TIMESTAMP()), 0)
         FROM sessions`).Scan(&st.TotalSessions, &st.UpcomingSessions); err != nil {
        return nil, err
    }
    st.PastSessions = st.TotalSessions - st.UpcomingSessions
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM sessions s
         WHERE (SELECT COUNT(*) FROM bookings b WHERE b.session_id = s.id AND b.status = 'ACTIVE') >= s.capacity`).
        Scan(&st.FullSessions); err != nil {
        return nil, err
    }
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*), COALESCE(SUM(CASE WHEN status='ACTIVE' THEN price_paid_cents ELSE 0 END), 0)
         FROM bookings`).Scan(&st.TotalBookings, &st.RevenueCents); err != nil {
        return nil, err
    }
    return &st, nil
}
