package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/config"
    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/repository"
)

// UserHandler exposes account administration and guardian management.
// List/create/role/activate are admin-only; guardian declaration is
// admin-only while the children listing serves the parent themselves.
type UserHandler struct {
    Cfg   config.Config
    Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
    return &UserHandler{Cfg: cfg, Users: u}
}

type userResp struct {
    ID        uint64     `json:"id"`
    Email     string     `json:"email"`
    FullName  string     `json:"full_name"`
    Role      string     `json:"role"`
    Phone     *string    `json:"phone,omitempty"`
    BirthDate *time.Time `json:"birth_date,omitempty"`
    IsActive  bool       `json:"is_active"`
    CreatedAt time.Time  `json:"created_at"`
}

func toUserResp(u model.User) userResp {
    return userResp{
        ID: u.ID, Email: u.Email, FullName: u.FullName, Role: string(u.Role),
        Phone: u.Phone, BirthDate: u.BirthDate, IsActive: u.IsActive, CreatedAt: u.CreatedAt,
    }
}

// List returns all users, optionally filtered by ?role=.
func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var (
        users []model.User
        err   error
    )
    if role := strings.ToUpper(strings.TrimSpace(c.QueryParam("role"))); role != "" {
        if !model.ValidRole(role) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
        }
        users, err = h.Users.ListByRoles(ctx, model.Role(role))
    } else {
        users, err = h.Users.List(ctx)
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
    }
    out := make([]userResp, 0, len(users))
    for _, u := range users {
        out = append(out, toUserResp(u))
    }
    return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Get returns one user by id.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    return c.JSON(http.StatusOK, toUserResp(u))
}

type createUserReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    FullName string `json:"full_name"`
    Role     string `json:"role"`
}

// Create lets an admin open an account with any role, including CHILD
// and ADMIN which self-registration refuses.
func (h *UserHandler) Create(c echo.Context) error {
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.FullName = strings.TrimSpace(req.FullName)
    role := strings.ToUpper(strings.TrimSpace(req.Role))
    if req.Email == "" || req.Password == "" || req.FullName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and full_name required"})
    }
    if !model.ValidRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Email, req.Password, model.Role(role), req.FullName, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": uid})
}

type updateRoleReq struct {
    Role string `json:"role"`
}

// UpdateRole changes a user's role.
func (h *UserHandler) UpdateRole(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateRoleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    role := strings.ToUpper(strings.TrimSpace(req.Role))
    if !model.ValidRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.UpdateRole(ctx, id, model.Role(role)); err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

type setActiveReq struct {
    IsActive *bool `json:"is_active"`
}

// SetActive enables or disables an account.
func (h *UserHandler) SetActive(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req setActiveReq
    if err := c.Bind(&req); err != nil || req.IsActive == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.SetActive(ctx, id, *req.IsActive); err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

type guardianReq struct {
    ChildID uint64 `json:"child_id"`
}

// AddGuardian declares the user in the path as guardian of the child in
// the body.
func (h *UserHandler) AddGuardian(c echo.Context) error {
    parentID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req guardianReq
    if err := c.Bind(&req); err != nil || req.ChildID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "child_id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.AddGuardian(ctx, parentID, req.ChildID); err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parent or child not found, or wrong role"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add guardian failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Coaches lists active coach accounts, for team and session assignment.
func (h *UserHandler) Coaches(c echo.Context) error {
    return h.listRoles(c, model.RoleCoach)
}

// Players lists playing accounts (players and children), for roster
// building.
func (h *UserHandler) Players(c echo.Context) error {
    return h.listRoles(c, model.RolePlayer, model.RoleChild)
}

func (h *UserHandler) listRoles(c echo.Context, roles ...model.Role) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    users, err := h.Users.ListByRoles(ctx, roles...)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
    }
    out := make([]userResp, 0, len(users))
    for _, u := range users {
        if u.IsActive {
            out = append(out, toUserResp(u))
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type updateMeReq struct {
    FullName  *string `json:"full_name"`
    Email     *string `json:"email"`
    Phone     *string `json:"phone"`
    BirthDate *string `json:"birth_date"` // YYYY-MM-DD, empty string clears
}

// UpdateMe applies a partial update to the caller's own profile.
// Omitted fields keep their stored values; role and active status are
// never self-editable.
func (h *UserHandler) UpdateMe(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req updateMeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.FullName == nil && req.Email == nil && req.Phone == nil && req.BirthDate == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
    }
    if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name must not be empty"})
    }
    if req.Email != nil && !strings.Contains(*req.Email, "@") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
    }
    var birth *time.Time
    if req.BirthDate != nil && *req.BirthDate != "" {
        b, err := time.Parse("2006-01-02", *req.BirthDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "birth_date must be YYYY-MM-DD"})
        }
        birth = &b
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }

    // Overlay provided fields on the stored record.
    if req.FullName != nil {
        u.FullName = strings.TrimSpace(*req.FullName)
    }
    if req.Email != nil {
        u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
    }
    if req.Phone != nil {
        if *req.Phone == "" {
            u.Phone = nil
        } else {
            u.Phone = req.Phone
        }
    }
    if req.BirthDate != nil {
        u.BirthDate = birth
    }

    if err := h.Users.UpdateProfile(ctx, uid, u.FullName, u.Email, u.Phone, u.BirthDate); err != nil {
        switch err {
        case repository.ErrEmailExists:
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        case repository.ErrUserNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
    }
    return c.JSON(http.StatusOK, toUserResp(u))
}

// MyChildren lists the authenticated parent's declared children.
func (h *UserHandler) MyChildren(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    children, err := h.Users.ListChildren(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list children failed"})
    }
    out := make([]userResp, 0, len(children))
    for _, u := range children {
        out = append(out, toUserResp(u))
    }
    return c.JSON(http.StatusOK, echo.Map{"children": out})
}
