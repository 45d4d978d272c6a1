package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/football-training-center/internal/config"
    "github.com/iliyamo/football-training-center/internal/model"
)

// memStore is an in-memory Store/Tx over plain maps.  Callers run
// serially in tests, so no locking is needed; a failed fn leaves prior
// mutations in place, which the flows under test never rely on.
type memStore struct {
    sessions  map[uint64]*model.Session
    bookings  map[uint64]*model.Booking
    bundles   map[uint64]*model.Bundle
    discounts map[string]*model.Discount
    nextID    uint64
}

func newMemStore() *memStore {
    return &memStore{
        sessions:  map[uint64]*model.Session{},
        bookings:  map[uint64]*model.Booking{},
        bundles:   map[uint64]*model.Bundle{},
        discounts: map[string]*model.Discount{},
        nextID:    1,
    }
}

func (m *memStore) InTx(_ context.Context, fn func(Tx) error) error { return fn(m) }

func (m *memStore) SessionForUpdate(id uint64) (*model.Session, error) {
    s, ok := m.sessions[id]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *s
    return &cp, nil
}

func (m *memStore) ActiveCount(sessionID uint64) (uint32, error) {
    var n uint32
    for _, b := range m.bookings {
        if b.SessionID == sessionID && b.Status == model.BookingActive {
            n++
        }
    }
    return n, nil
}

func (m *memStore) HasActive(userID, sessionID uint64) (bool, error) {
    for _, b := range m.bookings {
        if b.UserID == userID && b.SessionID == sessionID && b.Status == model.BookingActive {
            return true, nil
        }
    }
    return false, nil
}

func (m *memStore) DiscountByCode(code string) (*model.Discount, error) {
    d, ok := m.discounts[code]
    if !ok {
        return nil, ErrInvalidDiscount
    }
    cp := *d
    return &cp, nil
}

func (m *memStore) BundleForUpdate(id uint64) (*model.Bundle, error) {
    b, ok := m.bundles[id]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *b
    return &cp, nil
}

func (m *memStore) ConsumeCredit(bundleID uint64) error {
    m.bundles[bundleID].SessionsUsed++
    return nil
}

func (m *memStore) RefundCredit(bundleID uint64) error {
    if m.bundles[bundleID].SessionsUsed > 0 {
        m.bundles[bundleID].SessionsUsed--
    }
    return nil
}

func (m *memStore) InsertBooking(b *model.Booking) error {
    b.ID = m.nextID
    m.nextID++
    cp := *b
    m.bookings[b.ID] = &cp
    return nil
}

func (m *memStore) BookingForUpdate(id uint64) (*model.Booking, error) {
    b, ok := m.bookings[id]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *b
    return &cp, nil
}

func (m *memStore) MarkCancelled(bookingID uint64, at time.Time) error {
    b := m.bookings[bookingID]
    b.Status = model.BookingCancelled
    b.CancelledAt = &at
    return nil
}

// memUsers is a fixed UserDirectory.
type memUsers struct {
    users     map[uint64]*model.User
    guardians map[[2]uint64]bool
}

func (m *memUsers) UserByID(_ context.Context, id uint64) (*model.User, error) {
    return m.users[id], nil
}

func (m *memUsers) IsGuardian(_ context.Context, parentID, childID uint64) (bool, error) {
    return m.guardians[[2]uint64{parentID, childID}], nil
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

const (
    adminID  = 1
    playerA  = 2
    playerB  = 3
    parentID = 4
    childID  = 5
)

func fixture(t *testing.T, policy config.BookingPolicy) (*Service, *memStore) {
    t.Helper()
    store := newMemStore()
    store.sessions[10] = &model.Session{
        ID: 10, Name: "Evening Drills", Type: model.SessionGroup,
        StartsAt: testNow.Add(48 * time.Hour), DurationMin: 60,
        PriceCents: 10000, Capacity: 1,
    }
    store.sessions[11] = &model.Session{
        ID: 11, Name: "Open Training", Type: model.SessionGroup,
        StartsAt: testNow.Add(24 * time.Hour), DurationMin: 90,
        PriceCents: 5000, Capacity: 8,
    }
    users := &memUsers{
        users: map[uint64]*model.User{
            adminID:  {ID: adminID, Role: model.RoleAdmin, IsActive: true},
            playerA:  {ID: playerA, Role: model.RolePlayer, IsActive: true},
            playerB:  {ID: playerB, Role: model.RolePlayer, IsActive: true},
            parentID: {ID: parentID, Role: model.RoleParent, IsActive: true},
            childID:  {ID: childID, Role: model.RoleChild, IsActive: true},
        },
        guardians: map[[2]uint64]bool{{parentID, childID}: true},
    }
    return NewService(store, users, policy, func() time.Time { return testNow }), store
}

func TestBookCapacityOne(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10})
    require.NoError(t, err)
    assert.Equal(t, model.BookingActive, a.Status)
    assert.Equal(t, uint32(10000), a.PricePaidCents)
    assert.NotEmpty(t, a.Reference)

    _, err = svc.Book(ctx, BookRequest{ActorID: playerB, ActorRole: model.RolePlayer, SessionID: 10})
    assert.ErrorIs(t, err, ErrSessionFull)

    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: a.ID})
    require.NoError(t, err)

    b, err := svc.Book(ctx, BookRequest{ActorID: playerB, ActorRole: model.RolePlayer, SessionID: 10})
    require.NoError(t, err)
    assert.Equal(t, model.BookingActive, b.Status)
}

func TestBookDuplicateRejected(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    _, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    require.NoError(t, err)

    _, err = svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestCancelThenRebookSameSession(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    require.NoError(t, err)

    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: a.ID})
    require.NoError(t, err)

    b, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    require.NoError(t, err)
    assert.NotEqual(t, a.ID, b.ID)
    assert.NotEqual(t, a.Reference, b.Reference)
}

func TestCancelTwice(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    require.NoError(t, err)

    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: a.ID})
    require.NoError(t, err)
    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: a.ID})
    assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestBookWithBundleCreditRoundTrip(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()
    store.bundles[7] = &model.Bundle{
        ID: 7, OwnerID: playerA, SessionsIncluded: 1, SessionsUsed: 0,
        ExpiryDate: testNow.Add(30 * 24 * time.Hour),
    }

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11, BundleID: 7})
    require.NoError(t, err)
    assert.Equal(t, uint32(0), a.PricePaidCents)
    assert.Equal(t, uint32(1), store.bundles[7].SessionsUsed)

    // One credit, so a second bundle booking fails.
    _, err = svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10, BundleID: 7})
    assert.ErrorIs(t, err, ErrInsufficientCredit)

    // Cancelling well before start refunds the credit.
    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: a.ID})
    require.NoError(t, err)
    assert.Equal(t, uint32(0), store.bundles[7].SessionsUsed)
}

func TestBundleRefundCutoff(t *testing.T) {
    // Session 11 starts in 24h; a 48h cutoff means no refund.
    svc, store := fixture(t, config.BookingPolicy{RefundCutoff: 48 * time.Hour})
    ctx := context.Background()
    store.bundles[7] = &model.Bundle{
        ID: 7, OwnerID: playerA, SessionsIncluded: 5, SessionsUsed: 0,
        ExpiryDate: testNow.Add(30 * 24 * time.Hour),
    }

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11, BundleID: 7})
    require.NoError(t, err)

    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: a.ID})
    require.NoError(t, err)
    assert.Equal(t, uint32(1), store.bundles[7].SessionsUsed, "credit stays consumed inside the cutoff")

    // Session 10 starts in 48h, exactly on the cutoff boundary: refund.
    b, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10, BundleID: 7})
    require.NoError(t, err)
    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerA, ActorRole: model.RolePlayer, BookingID: b.ID})
    require.NoError(t, err)
    assert.Equal(t, uint32(1), store.bundles[7].SessionsUsed)
}

func TestBookExpiredBundle(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()
    store.bundles[7] = &model.Bundle{
        ID: 7, OwnerID: playerA, SessionsIncluded: 5, SessionsUsed: 0,
        ExpiryDate: testNow.Add(-time.Hour),
    }

    _, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11, BundleID: 7})
    assert.ErrorIs(t, err, ErrBundleExpired)
}

func TestBookSomeoneElsesBundle(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()
    store.bundles[7] = &model.Bundle{
        ID: 7, OwnerID: playerB, SessionsIncluded: 5,
        ExpiryDate: testNow.Add(30 * 24 * time.Hour),
    }

    _, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11, BundleID: 7})
    assert.ErrorIs(t, err, ErrNotBundleOwner)
}

func TestBookWithDiscount(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()
    store.discounts["SAVE10"] = &model.Discount{
        ID: 1, Code: "SAVE10", Percentage: 10, Active: true,
        ValidFrom:  testNow.Add(-5 * 24 * time.Hour),
        ValidUntil: testNow.Add(5 * 24 * time.Hour),
    }

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10, DiscountCode: "SAVE10"})
    require.NoError(t, err)
    assert.Equal(t, uint32(9000), a.PricePaidCents)
    require.NotNil(t, a.DiscountCode)
    assert.Equal(t, "SAVE10", *a.DiscountCode)
}

func TestBookWithExpiredDiscount(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()
    store.discounts["SAVE10"] = &model.Discount{
        ID: 1, Code: "SAVE10", Percentage: 10, Active: true,
        ValidFrom:  testNow.Add(-15 * 24 * time.Hour),
        ValidUntil: testNow.Add(-1 * 24 * time.Hour),
    }

    _, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10, DiscountCode: "SAVE10"})
    assert.ErrorIs(t, err, ErrInvalidDiscount)

    _, err = svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10, DiscountCode: "NOPE"})
    assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestFullSessionReportedBeforeBadDiscount(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    _, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 10})
    require.NoError(t, err)

    _, err = svc.Book(ctx, BookRequest{ActorID: playerB, ActorRole: model.RolePlayer, SessionID: 10, DiscountCode: "NOPE"})
    assert.ErrorIs(t, err, ErrSessionFull)
}

func TestBookStartedSession(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()
    store.sessions[12] = &model.Session{
        ID: 12, Name: "Morning Run", Type: model.SessionGroup,
        StartsAt: testNow.Add(-time.Hour), DurationMin: 60, PriceCents: 1000, Capacity: 10,
    }

    _, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 12})
    assert.ErrorIs(t, err, ErrSessionStarted)
}

func TestBookUnknownSession(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    _, err := svc.Book(context.Background(), BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 999})
    assert.ErrorIs(t, err, ErrNotFound)
}

func TestParentBooksForChild(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: parentID, ActorRole: model.RoleParent, ForUserID: childID, SessionID: 11})
    require.NoError(t, err)
    assert.Equal(t, uint64(childID), a.UserID)

    // Not a registered guardian of playerA.
    _, err = svc.Book(ctx, BookRequest{ActorID: parentID, ActorRole: model.RoleParent, ForUserID: playerA, SessionID: 11})
    assert.ErrorIs(t, err, ErrNotGuardian)

    // Parents never book for themselves.
    _, err = svc.Book(ctx, BookRequest{ActorID: parentID, ActorRole: model.RoleParent, SessionID: 11})
    assert.ErrorIs(t, err, ErrForbidden)
}

func TestPlayerCannotBookForOthers(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    _, err := svc.Book(context.Background(),
        BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, ForUserID: playerB, SessionID: 11})
    assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminBooksForAnyPlayer(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: adminID, ActorRole: model.RoleAdmin, ForUserID: playerB, SessionID: 11})
    require.NoError(t, err)
    assert.Equal(t, uint64(playerB), a.UserID)

    // Parents do not attend sessions, even when an admin asks.
    _, err = svc.Book(ctx, BookRequest{ActorID: adminID, ActorRole: model.RoleAdmin, ForUserID: parentID, SessionID: 11})
    assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelAuthorization(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    require.NoError(t, err)

    _, err = svc.Cancel(ctx, CancelRequest{ActorID: playerB, ActorRole: model.RolePlayer, BookingID: a.ID})
    assert.ErrorIs(t, err, ErrForbidden)

    _, err = svc.Cancel(ctx, CancelRequest{ActorID: adminID, ActorRole: model.RoleAdmin, BookingID: a.ID})
    require.NoError(t, err)
}

func TestParentCancelsChildBooking(t *testing.T) {
    svc, _ := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: parentID, ActorRole: model.RoleParent, ForUserID: childID, SessionID: 11})
    require.NoError(t, err)

    got, err := svc.Cancel(ctx, CancelRequest{ActorID: parentID, ActorRole: model.RoleParent, BookingID: a.ID})
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, got.Status)
    require.NotNil(t, got.CancelledAt)
    assert.Equal(t, testNow, *got.CancelledAt)
}

func TestPriceSnapshotSurvivesSessionEdit(t *testing.T) {
    svc, store := fixture(t, config.BookingPolicy{})
    ctx := context.Background()

    a, err := svc.Book(ctx, BookRequest{ActorID: playerA, ActorRole: model.RolePlayer, SessionID: 11})
    require.NoError(t, err)
    require.Equal(t, uint32(5000), a.PricePaidCents)

    store.sessions[11].PriceCents = 9999
    assert.Equal(t, uint32(5000), store.bookings[a.ID].PricePaidCents)
}
