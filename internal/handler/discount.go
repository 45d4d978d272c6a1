package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/model"
    "github.com/iliyamo/football-training-center/internal/repository"
    "github.com/iliyamo/football-training-center/internal/service/booking"
)

// DiscountHandler exposes discount administration and a preview
// endpoint that applies a code to a price without booking anything.
type DiscountHandler struct {
    Discounts *repository.DiscountRepo
}

func NewDiscountHandler(d *repository.DiscountRepo) *DiscountHandler {
    return &DiscountHandler{Discounts: d}
}

type createDiscountReq struct {
    Code        string `json:"code"`
    Description string `json:"description"`
    Percentage  uint32 `json:"percentage"`
    AmountCents uint32 `json:"amount_cents"`
    ValidFrom   string `json:"valid_from"`  // RFC 3339
    ValidUntil  string `json:"valid_until"` // RFC 3339
    Active      *bool  `json:"active"`
}

type discountResp struct {
    ID          uint64    `json:"id"`
    Code        string    `json:"code"`
    Description string    `json:"description"`
    Percentage  uint32    `json:"percentage,omitempty"`
    AmountCents uint32    `json:"amount_cents,omitempty"`
    ValidFrom   time.Time `json:"valid_from"`
    ValidUntil  time.Time `json:"valid_until"`
    Active      bool      `json:"active"`
}

func toDiscountResp(d model.Discount) discountResp {
    return discountResp{
        ID: d.ID, Code: d.Code, Description: d.Description,
        Percentage: d.Percentage, AmountCents: d.AmountCents,
        ValidFrom: d.ValidFrom, ValidUntil: d.ValidUntil, Active: d.Active,
    }
}

// Create adds a discount. A code carries either a percentage or a fixed
// amount, never both.
func (h *DiscountHandler) Create(c echo.Context) error {
    var req createDiscountReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
    if req.Code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
    }
    if (req.Percentage == 0) == (req.AmountCents == 0) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "set exactly one of percentage or amount_cents"})
    }
    if req.Percentage > 100 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "percentage must be 1..100"})
    }
    from, err := time.Parse(time.RFC3339, req.ValidFrom)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_from must be RFC 3339"})
    }
    until, err := time.Parse(time.RFC3339, req.ValidUntil)
    if err != nil || !until.After(from) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until must be after valid_from"})
    }
    active := true
    if req.Active != nil {
        active = *req.Active
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Discounts.Create(ctx, &model.Discount{
        Code: req.Code, Description: req.Description,
        Percentage: req.Percentage, AmountCents: req.AmountCents,
        ValidFrom: from.UTC(), ValidUntil: until.UTC(), Active: active,
    })
    if err != nil {
        if err == repository.ErrCodeExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create discount failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns every discount, admin view.
func (h *DiscountHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ds, err := h.Discounts.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list discounts failed"})
    }
    out := make([]discountResp, 0, len(ds))
    for _, d := range ds {
        out = append(out, toDiscountResp(d))
    }
    return c.JSON(http.StatusOK, echo.Map{"discounts": out})
}

// Active returns discounts currently valid, the public view.
func (h *DiscountHandler) Active(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ds, err := h.Discounts.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list discounts failed"})
    }
    out := make([]discountResp, 0, len(ds))
    for _, d := range ds {
        out = append(out, toDiscountResp(d))
    }
    return c.JSON(http.StatusOK, echo.Map{"discounts": out})
}

type setDiscountActiveReq struct {
    Active *bool `json:"active"`
}

// SetActive toggles a discount on or off.
func (h *DiscountHandler) SetActive(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req setDiscountActiveReq
    if err := c.Bind(&req); err != nil || req.Active == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "active required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Discounts.SetActive(ctx, id, *req.Active); err != nil {
        if err == repository.ErrDiscountNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "discount not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update discount failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

type applyDiscountReq struct {
    Code       string `json:"code"`
    PriceCents uint32 `json:"price_cents"`
}

// Apply previews a discount against a price, using the same rules the
// booking flow applies at commit time.
func (h *DiscountHandler) Apply(c echo.Context) error {
    var req applyDiscountReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    d, err := h.Discounts.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
    if err != nil {
        if err == repository.ErrDiscountNotFound {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount code is invalid or not currently valid"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load discount failed"})
    }
    final, err := booking.ApplyDiscount(d, time.Now().UTC(), req.PriceCents)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "code":           d.Code,
        "price_cents":    req.PriceCents,
        "final_cents":    final,
        "discount_cents": req.PriceCents - final,
    })
}
