package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/football-training-center/internal/model"
)

// DiscountRepo manages discount codes.  Validation against a booking
// happens in the booking service; this repo covers administration and
// code lookup.
type DiscountRepo struct {
    db *sql.DB
}

// NewDiscountRepo returns a new DiscountRepo bound to the given database.
func NewDiscountRepo(db *sql.DB) *DiscountRepo { return &DiscountRepo{db: db} }

var (
    ErrDiscountNotFound = errors.New("discount not found")
    ErrCodeExists       = errors.New("discount code already exists")
)

const discountCols = "id, code, description, percentage, amount_cents, valid_from, valid_until, active"

func scanDiscount(row interface{ Scan(...any) error }) (model.Discount, error) {
    var d model.Discount
    err := row.Scan(&d.ID, &d.Code, &d.Description, &d.Percentage, &d.AmountCents,
        &d.ValidFrom, &d.ValidUntil, &d.Active)
    return d, err
}

// Create inserts a new discount and returns its ID.  Duplicate codes
// hit the unique index and surface as ErrCodeExists.
func (r *DiscountRepo) Create(ctx context.Context, d *model.Discount) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO discounts (code, description, percentage, amount_cents, valid_from, valid_until, active)
         VALUES (?,?,?,?,?,?,?)`,
        d.Code, d.Description, d.Percentage, d.AmountCents,
        d.ValidFrom.UTC().Format("2006-01-02 15:04:05"),
        d.ValidUntil.UTC().Format("2006-01-02 15:04:05"), d.Active)
    if err != nil {
        if strings.Contains(err.Error(), "1062") {
            return 0, ErrCodeExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByCode looks a discount up by its code, case-sensitively.
func (r *DiscountRepo) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
    d, err := scanDiscount(r.db.QueryRowContext(ctx,
        "SELECT "+discountCols+" FROM discounts WHERE code = ?", code))
    if err == sql.ErrNoRows {
        return nil, ErrDiscountNotFound
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}

// ListActive returns discounts that are switched on and inside their
// validity window right now.
func (r *DiscountRepo) ListActive(ctx context.Context) ([]model.Discount, error) {
    return r.list(ctx, "SELECT "+discountCols+` FROM discounts
        WHERE active = 1 AND valid_from <= UTC_TIMESTAMP() AND valid_until >= UTC_TIMESTAMP()
        ORDER BY code`)
}

// List returns every discount, admin view.
func (r *DiscountRepo) List(ctx context.Context) ([]model.Discount, error) {
    return r.list(ctx, "SELECT "+discountCols+" FROM discounts ORDER BY code")
}

func (r *DiscountRepo) list(ctx context.Context, q string, args ...any) ([]model.Discount, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Discount, 0)
    for rows.Next() {
        d, err := scanDiscount(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// SetActive toggles a discount on or off.
func (r *DiscountRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    res, err := r.db.ExecContext(ctx, "UPDATE discounts SET active=? WHERE id=?", active, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrDiscountNotFound
    }
    return nil
}
