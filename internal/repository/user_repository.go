package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/football-training-center/internal/model"
	"github.com/iliyamo/football-training-center/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a referenced user does not exist or
// does not satisfy a role constraint (e.g. assigning a non-coach as
// team coach).
var ErrUserNotFound = errors.New("user not found")

const userCols = "id,email,password_hash,role,full_name,phone,birth_date,is_active,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u     model.User
		role  string
		phone sql.NullString
		birth sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.FullName,
		&phone, &birth, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	u.Role = model.Role(role)
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	if birth.Valid {
		b := birth.Time
		u.BirthDate = &b
	}
	return u, nil
}

// Create inserts a user and returns its ID.  The email is normalized to
// lower case and the password is bcrypt-hashed with the given cost.
func (r *UserRepo) Create(ctx context.Context, email, password string, role model.Role, fullName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, full_name) VALUES (?,?,?,?)",
		email, hash, string(role), fullName)
	if err != nil {
		// 1062 is MySQL's duplicate-key error code
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UserByID adapts GetByID to the pointer form used by the booking
// service's user directory port. A missing user is reported as nil, nil.
func (r *UserRepo) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by creation time, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListByRoles returns active users holding any of the given roles,
// ordered by full name.  Used for coach and player listings when
// building teams.
func (r *UserRepo) ListByRoles(ctx context.Context, roles ...model.Role) ([]model.User, error) {
	if len(roles) == 0 {
		return []model.User{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roles)), ",")
	args := make([]any, 0, len(roles))
	for _, role := range roles {
		args = append(args, string(role))
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role IN ("+placeholders+") AND is_active=1 ORDER BY full_name",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateRole changes a user's role.  Only admins may call this; the
// handler enforces the gate.  Returns ErrUserNotFound when no row was
// updated.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", string(role), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile overwrites a user's self-editable fields.  The handler
// overlays provided fields on the stored record first, so every column
// is written.  A duplicate email maps to ErrEmailExists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, email string, phone *string, birthDate *time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, email=?, phone=?, birth_date=?, updated_at=NOW() WHERE id=?",
		fullName, email, phone, birthDate, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddGuardian declares a parent→child relationship.  Both sides must
// exist and carry the expected roles; otherwise ErrUserNotFound is
// returned.  Declaring the same relationship twice is a no-op.
func (r *UserRepo) AddGuardian(ctx context.Context, parentID, childID uint64) error {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users
		 WHERE (id=? AND role=?) OR (id=? AND role=?)`,
		parentID, string(model.RoleParent), childID, string(model.RoleChild)).Scan(&n)
	if err != nil {
		return err
	}
	if n != 2 {
		return ErrUserNotFound
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO guardians (parent_id, child_id) VALUES (?,?)",
		parentID, childID)
	return err
}

// SetActive enables or disables an account.  Disabled accounts cannot
// log in and cannot be booked for.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=?, updated_at=NOW() WHERE id=?", active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListChildren returns the children declared under a parent.
func (r *UserRepo) ListChildren(ctx context.Context, parentID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+` FROM users
		 WHERE id IN (SELECT child_id FROM guardians WHERE parent_id=?)
		 ORDER BY full_name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// IsGuardian reports whether parentID has a declared relationship to
// childID.
func (r *UserRepo) IsGuardian(ctx context.Context, parentID, childID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM guardians WHERE parent_id=? AND child_id=? LIMIT 1",
		parentID, childID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
