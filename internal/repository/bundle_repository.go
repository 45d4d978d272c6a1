package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/football-training-center/internal/model"
)

// BundleRepo manages prepaid session bundles.  Credit consumption and
// refund happen inside booking transactions (see BookingRepo); this
// repo covers purchase and read access.
type BundleRepo struct {
    db *sql.DB
}

// NewBundleRepo returns a new BundleRepo bound to the given database.
func NewBundleRepo(db *sql.DB) *BundleRepo { return &BundleRepo{db: db} }

var ErrBundleNotFound = errors.New("bundle not found")

// Create inserts a new bundle for the owner and returns its ID.  The
// owner must be an existing active account.
func (r *BundleRepo) Create(ctx context.Context, ownerID uint64, sessionsIncluded uint32, expiry time.Time) (uint64, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        "SELECT 1 FROM users WHERE id=? AND is_active=1 LIMIT 1", ownerID).Scan(&one)
    if err == sql.ErrNoRows {
        return 0, ErrUserNotFound
    }
    if err != nil {
        return 0, err
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO bundles (owner_id, sessions_included, sessions_used, expiry_date)
         VALUES (?,?,0,?)`,
        ownerID, sessionsIncluded, expiry.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

const bundleCols = "id, owner_id, sessions_included, sessions_used, expiry_date, created_at"

func scanBundle(row interface{ Scan(...any) error }) (model.Bundle, error) {
    var b model.Bundle
    err := row.Scan(&b.ID, &b.OwnerID, &b.SessionsIncluded, &b.SessionsUsed, &b.ExpiryDate, &b.CreatedAt)
    return b, err
}

// GetByID loads one bundle or returns ErrBundleNotFound.
func (r *BundleRepo) GetByID(ctx context.Context, id uint64) (*model.Bundle, error) {
    b, err := scanBundle(r.db.QueryRowContext(ctx,
        "SELECT "+bundleCols+" FROM bundles WHERE id = ?", id))
    if err == sql.ErrNoRows {
        return nil, ErrBundleNotFound
    }
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// ListByOwner returns the owner's bundles, newest first.
func (r *BundleRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Bundle, error) {
    return r.list(ctx, "SELECT "+bundleCols+" FROM bundles WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
}

// List returns every bundle, newest first.
func (r *BundleRepo) List(ctx context.Context) ([]model.Bundle, error) {
    return r.list(ctx, "SELECT "+bundleCols+" FROM bundles ORDER BY created_at DESC")
}

func (r *BundleRepo) list(ctx context.Context, q string, args ...any) ([]model.Bundle, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Bundle, 0)
    for rows.Next() {
        b, err := scanBundle(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}
