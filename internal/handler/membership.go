package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/repository"
)

// MembershipHandler exposes membership plans with freeze/unfreeze.
type MembershipHandler struct {
    Memberships *repository.MembershipRepo
}

func NewMembershipHandler(m *repository.MembershipRepo) *MembershipHandler {
    return &MembershipHandler{Memberships: m}
}

type createMembershipReq struct {
    OwnerID     uint64 `json:"owner_id"` // 0 = subscribe myself
    PlanName    string `json:"plan_name"`
    StartDate   string `json:"start_date"`   // YYYY-MM-DD
    RenewalDate string `json:"renewal_date"` // YYYY-MM-DD
}

type membershipResp struct {
    ID          uint64     `json:"id"`
    OwnerID     uint64     `json:"owner_id"`
    PlanName    string     `json:"plan_name"`
    StartDate   time.Time  `json:"start_date"`
    RenewalDate time.Time  `json:"renewal_date"`
    Active      bool       `json:"active"`
    FreezeCount uint32     `json:"freeze_count"`
    FrozenAt    *time.Time `json:"frozen_at,omitempty"`
}

func toMembershipResp(m model.Membership) membershipResp {
    return membershipResp{
        ID: m.ID, OwnerID: m.OwnerID, PlanName: m.PlanName,
        StartDate: m.StartDate, RenewalDate: m.RenewalDate,
        Active: m.Active, FreezeCount: m.FreezeCount, FrozenAt: m.FrozenAt,
    }
}

// Create opens a membership. Non-admins always subscribe themselves.
func (h *MembershipHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createMembershipReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.PlanName = strings.TrimSpace(req.PlanName)
    if req.PlanName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan_name required"})
    }
    start, err := time.Parse("2006-01-02", req.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
    }
    renewal, err := time.Parse("2006-01-02", req.RenewalDate)
    if err != nil || !renewal.After(start) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "renewal_date must be after start_date"})
    }
    owner := uid
    if req.OwnerID != 0 && req.OwnerID != uid {
        if getRole(c) != model.RoleAdmin {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        owner = req.OwnerID
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Memberships.Create(ctx, owner, req.PlanName, start, renewal)
    if err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "owner not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create membership failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Mine returns the caller's memberships.
func (h *MembershipHandler) Mine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ms, err := h.Memberships.ListByOwner(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list memberships failed"})
    }
    out := make([]membershipResp, 0, len(ms))
    for _, m := range ms {
        out = append(out, toMembershipResp(m))
    }
    return c.JSON(http.StatusOK, echo.Map{"memberships": out})
}

// ownedOrAdmin loads the membership and checks the caller may act on it.
func (h *MembershipHandler) ownedOrAdmin(c echo.Context, ctx context.Context, id uint64) (int, string) {
    uid, err := getUserID(c)
    if err != nil {
        return http.StatusUnauthorized, "unauthorized"
    }
    m, err := h.Memberships.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrMembershipNotFound {
            return http.StatusNotFound, "membership not found"
        }
        return http.StatusInternalServerError, "load membership failed"
    }
    if m.OwnerID != uid && getRole(c) != model.RoleAdmin {
        return http.StatusForbidden, "forbidden"
    }
    return 0, ""
}

// Freeze pauses a membership.
func (h *MembershipHandler) Freeze(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if st, msg := h.ownedOrAdmin(c, ctx, id); st != 0 {
        return c.JSON(st, echo.Map{"error": msg})
    }
    if err := h.Memberships.Freeze(ctx, id, time.Now().UTC()); err != nil {
        switch err {
        case repository.ErrAlreadyFrozen:
            return c.JSON(http.StatusConflict, echo.Map{"error": "membership is already frozen"})
        case repository.ErrFreezeLimit:
            return c.JSON(http.StatusConflict, echo.Map{"error": "membership freeze limit reached"})
        case repository.ErrMembershipNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "membership not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "freeze failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Unfreeze resumes a frozen membership and extends the renewal date by
// the frozen duration.
func (h *MembershipHandler) Unfreeze(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if st, msg := h.ownedOrAdmin(c, ctx, id); st != 0 {
        return c.JSON(st, echo.Map{"error": msg})
    }
    if err := h.Memberships.Unfreeze(ctx, id, time.Now().UTC()); err != nil {
        switch err {
        case repository.ErrNotFrozen:
            return c.JSON(http.StatusConflict, echo.Map{"error": "membership is not frozen"})
        case repository.ErrMembershipNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "membership not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unfreeze failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
