package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/football-training-center/internal/model"
)

func TestApplyDiscount(t *testing.T) {
    from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
    until := time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)

    pct := &model.Discount{Code: "SAVE10", Percentage: 10, Active: true, ValidFrom: from, ValidUntil: until}
    fixed := &model.Discount{Code: "OFF25", AmountCents: 2500, Active: true, ValidFrom: from, ValidUntil: until}

    tests := []struct {
        name    string
        d       *model.Discount
        at      time.Time
        price   uint32
        want    uint32
        wantErr error
    }{
        {"percentage inside window", pct, from.AddDate(0, 0, 5), 10000, 9000, nil},
        {"percentage rounds down", pct, from.AddDate(0, 0, 5), 9999, 9000, nil},
        {"percentage on large price", pct, from.AddDate(0, 0, 5), 500_000_000, 450_000_000, nil},
        {"window start inclusive", pct, from, 10000, 9000, nil},
        {"window end inclusive", pct, until, 10000, 9000, nil},
        {"day after window", pct, until.AddDate(0, 0, 1), 10000, 0, ErrInvalidDiscount},
        {"before window", pct, from.Add(-time.Second), 10000, 0, ErrInvalidDiscount},
        {"fixed amount", fixed, from.AddDate(0, 0, 5), 10000, 7500, nil},
        {"fixed amount floors at zero", fixed, from.AddDate(0, 0, 5), 2000, 0, nil},
        {
            "inactive discount",
            &model.Discount{Code: "OLD", Percentage: 50, Active: false, ValidFrom: from, ValidUntil: until},
            from.AddDate(0, 0, 5), 10000, 0, ErrInvalidDiscount,
        },
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            got, err := ApplyDiscount(tc.d, tc.at, tc.price)
            if tc.wantErr != nil {
                assert.ErrorIs(t, err, tc.wantErr)
                return
            }
            assert.NoError(t, err)
            assert.Equal(t, tc.want, got)
        })
    }
}
