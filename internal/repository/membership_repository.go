package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/football-training-center/internal/model"
)

// MembershipRepo manages recurring membership plans.  A freeze pauses
// the plan and pushes the renewal date out by the frozen duration when
// it resumes; the number of freezes per membership is capped.
type MembershipRepo struct {
    db *sql.DB
}

// NewMembershipRepo returns a new MembershipRepo bound to the given database.
func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{db: db} }

var (
    ErrMembershipNotFound = errors.New("membership not found")
    ErrFreezeLimit        = errors.New("membership freeze limit reached")
    ErrNotFrozen          = errors.New("membership is not frozen")
    ErrAlreadyFrozen      = errors.New("membership is already frozen")
)

const membershipCols = "id, owner_id, plan_name, start_date, renewal_date, active, freeze_count, frozen_at"

func scanMembership(row interface{ Scan(...any) error }) (model.Membership, error) {
    var m model.Membership
    var frozen sql.NullTime
    err := row.Scan(&m.ID, &m.OwnerID, &m.PlanName, &m.StartDate, &m.RenewalDate,
        &m.Active, &m.FreezeCount, &frozen)
    if err != nil {
        return m, err
    }
    if frozen.Valid {
        at := frozen.Time
        m.FrozenAt = &at
    }
    return m, nil
}

// Create opens a membership for the owner and returns its ID.
func (r *MembershipRepo) Create(ctx context.Context, ownerID uint64, planName string, start, renewal time.Time) (uint64, error) {
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
        `INSERT INTO memberships (owner_id, plan_name, start_date, renewal_date, active, freeze_count)
         VALUES (?,?,?,?,1,0)`,
        ownerID, planName,
        start.UTC().Format("2006-01-02"), renewal.UTC().Format("2006-01-02"))
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID loads one membership or returns ErrMembershipNotFound.
func (r *MembershipRepo) GetByID(ctx context.Context, id uint64) (*model.Membership, error) {
    m, err := scanMembership(r.db.QueryRowContext(ctx,
        "SELECT "+membershipCols+" FROM memberships WHERE id = ?", id))
    if err == sql.ErrNoRows {
        return nil, ErrMembershipNotFound
    }
    if err != nil {
        return nil, err
    }
    return &m, nil
}

// ListByOwner returns the owner's memberships, newest first.
func (r *MembershipRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Membership, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+membershipCols+" FROM memberships WHERE owner_id = ? ORDER BY id DESC", ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Membership, 0)
    for rows.Next() {
        m, err := scanMembership(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// Freeze pauses an active membership at the given time.  Fails when the
// membership is already frozen or has used all its freezes.
func (r *MembershipRepo) Freeze(ctx context.Context, id uint64, at time.Time) error {
    return r.inTx(ctx, func(tx *sql.Tx) error {
        m, err := r.forUpdate(ctx, tx, id)
        if err != nil {
            return err
        }
        if m.FrozenAt != nil {
            return ErrAlreadyFrozen
        }
        if m.FreezeCount >= model.MaxMembershipFreezes {
            return ErrFreezeLimit
        }
        _, err = tx.ExecContext(ctx,
            "UPDATE memberships SET frozen_at=?, freeze_count=freeze_count+1 WHERE id=?",
            at.UTC().Format("2006-01-02 15:04:05"), id)
        return err
    })
}

// Unfreeze resumes a frozen membership, extending the renewal date by
// the whole days the plan spent frozen.
func (r *MembershipRepo) Unfreeze(ctx context.Context, id uint64, at time.Time) error {
    return r.inTx(ctx, func(tx *sql.Tx) error {
        m, err := r.forUpdate(ctx, tx, id)
        if err != nil {
            return err
        }
        if m.FrozenAt == nil {
            return ErrNotFrozen
        }
        days := int(at.Sub(*m.FrozenAt).Hours() / 24)
        _, err = tx.ExecContext(ctx,
            "UPDATE memberships SET frozen_at=NULL, renewal_date=DATE_ADD(renewal_date, INTERVAL ? DAY) WHERE id=?",
            days, id)
        return err
    })
}

func (r *MembershipRepo) forUpdate(ctx context.Context, tx *sql.Tx, id uint64) (*model.Membership, error) {
    m, err := scanMembership(tx.QueryRowContext(ctx,
        "SELECT "+membershipCols+" FROM memberships WHERE id = ? FOR UPDATE", id))
    if err == sql.ErrNoRows {
        return nil, ErrMembershipNotFound
    }
    if err != nil {
        return nil, err
    }
    return &m, nil
}

func (r *MembershipRepo) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
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
    if err := fn(tx); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
