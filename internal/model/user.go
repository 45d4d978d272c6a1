package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (ADMIN, COACH, PLAYER, PARENT, CHILD).
//  FullName     – display name used in rosters and booking lists.
//  Phone        – optional contact phone number.
//  BirthDate    – optional date of birth (relevant for CHILD accounts).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64     // users.id
    Email        string     // users.email
    PasswordHash string     // users.password_hash
    Role         Role       // users.role
    FullName     string     // users.full_name
    Phone        *string    // users.phone (nullable)
    BirthDate    *time.Time // users.birth_date (nullable)
    IsActive     bool       // users.is_active
    CreatedAt    time.Time  // users.created_at
    UpdatedAt    time.Time  // users.updated_at
}

// Guardian records a declared parent→child relationship in the `guardians`
// table.  Parents may only book or cancel sessions for users they are
// linked to here.
//
// Fields:
//  ParentID  – user with role PARENT.
//  ChildID   – user with role CHILD.
//  CreatedAt – when the relationship was declared.
type Guardian struct {
    ParentID  uint64    // guardians.parent_id
    ChildID   uint64    // guardians.child_id
    CreatedAt time.Time // guardians.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
