package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/repository"
)

// BundleHandler exposes prepaid bundle purchase and inspection. Credit
// consumption happens through the booking flow, never directly here.
type BundleHandler struct {
    Bundles *repository.BundleRepo
}

func NewBundleHandler(b *repository.BundleRepo) *BundleHandler {
    return &BundleHandler{Bundles: b}
}

type createBundleReq struct {
    OwnerID          uint64 `json:"owner_id"` // 0 = buy for myself
    SessionsIncluded uint32 `json:"sessions_included"`
    ExpiryDate       string `json:"expiry_date"` // RFC 3339
}

type bundleResp struct {
    ID               uint64    `json:"id"`
    OwnerID          uint64    `json:"owner_id"`
    SessionsIncluded uint32    `json:"sessions_included"`
    SessionsUsed     uint32    `json:"sessions_used"`
    CreditsLeft      uint32    `json:"credits_left"`
    ExpiryDate       time.Time `json:"expiry_date"`
    Expired          bool      `json:"expired"`
}

func toBundleResp(b model.Bundle) bundleResp {
    return bundleResp{
        ID: b.ID, OwnerID: b.OwnerID,
        SessionsIncluded: b.SessionsIncluded, SessionsUsed: b.SessionsUsed,
        CreditsLeft: b.CreditsLeft(), ExpiryDate: b.ExpiryDate,
        Expired: b.Expired(time.Now().UTC()),
    }
}

// Create buys a bundle. Non-admins always buy for themselves.
func (h *BundleHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBundleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.SessionsIncluded == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "sessions_included must be positive"})
    }
    expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
    if err != nil || !expiry.After(time.Now()) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "expiry_date must be a future RFC 3339 time"})
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

    id, err := h.Bundles.Create(ctx, owner, req.SessionsIncluded, expiry)
    if err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "owner not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create bundle failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Get returns one bundle. Owners see their own; admins see any.
func (h *BundleHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Bundles.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrBundleNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "bundle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bundle failed"})
    }
    if b.OwnerID != uid && getRole(c) != model.RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, toBundleResp(*b))
}

// Mine returns the caller's bundles.
func (h *BundleHandler) Mine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bundles, err := h.Bundles.ListByOwner(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bundles failed"})
    }
    out := make([]bundleResp, 0, len(bundles))
    for _, b := range bundles {
        out = append(out, toBundleResp(b))
    }
    return c.JSON(http.StatusOK, echo.Map{"bundles": out})
}

// List returns every bundle, admin view.
func (h *BundleHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bundles, err := h.Bundles.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bundles failed"})
    }
    out := make([]bundleResp, 0, len(bundles))
    for _, b := range bundles {
        out = append(out, toBundleResp(b))
    }
    return c.JSON(http.StatusOK, echo.Map{"bundles": out})
}
