package booking

import (
    "time"

    "github.com/iliyamo/football-training-center/internal/model"
)

// ApplyDiscount returns the price after applying d to priceCents at the
// given instant.  ErrInvalidDiscount is returned when the discount is
// inactive or outside its validity window; the window is inclusive on
// both ends.  Fixed-amount discounts floor the result at zero.
func ApplyDiscount(d *model.Discount, at time.Time, priceCents uint32) (uint32, error) {
    if !d.Active || at.Before(d.ValidFrom) || at.After(d.ValidUntil) {
        return 0, ErrInvalidDiscount
    }
    if d.Percentage > 0 {
        // Widen before multiplying: price*percentage overflows uint32
        // well inside the representable price range.
        off := uint64(priceCents) * uint64(d.Percentage) / 100
        return priceCents - uint32(off), nil
    }
    if d.AmountCents >= priceCents {
        return 0, nil
    }
    return priceCents - d.AmountCents, nil
}
