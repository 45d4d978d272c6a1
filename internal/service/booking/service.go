// Package booking implements the reservation core: placing a booking
// against a session under row locks so capacity is never oversold, and
// cancelling one with a policy-gated bundle credit refund.
package booking

import (
    "context"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/football-training-center/internal/config"
    "github.com/iliyamo/football-training-center/internal/model"
)

// Service coordinates the booking flow.  All row reads that feed a
// decision happen inside a single transaction through Store.
type Service struct {
    store  Store
    users  UserDirectory
    policy config.BookingPolicy
    now    func() time.Time
}

// NewService wires a Service.  now is replaceable for tests; pass nil
// for the wall clock.
func NewService(store Store, users UserDirectory, policy config.BookingPolicy, now func() time.Time) *Service {
    if now == nil {
        now = time.Now
    }
    return &Service{store: store, users: users, policy: policy, now: now}
}

// BookRequest carries one booking attempt.  ForUserID zero means the
// actor books for themselves.
type BookRequest struct {
    ActorID      uint64
    ActorRole    model.Role
    ForUserID    uint64
    SessionID    uint64
    DiscountCode string
    BundleID     uint64
}

// CancelRequest carries one cancellation attempt.
type CancelRequest struct {
    ActorID   uint64
    ActorRole model.Role
    BookingID uint64
}

// Book places a booking.  Checks run in a fixed order inside one
// transaction: session exists and has not started, no duplicate active
// booking, free capacity, discount validity, then bundle credit.  The
// first failing check decides the returned error, so a full session
// reports ErrSessionFull even when the discount code would also have
// been rejected.
func (s *Service) Book(ctx context.Context, req BookRequest) (*model.Booking, error) {
    targetID, err := s.resolveTarget(ctx, req)
    if err != nil {
        return nil, err
    }
    now := s.now()

    var out *model.Booking
    err = s.store.InTx(ctx, func(tx Tx) error {
        sess, err := tx.SessionForUpdate(req.SessionID)
        if err != nil {
            return err
        }
        if !sess.StartsAt.After(now) {
            return ErrSessionStarted
        }
        dup, err := tx.HasActive(targetID, req.SessionID)
        if err != nil {
            return err
        }
        if dup {
            return ErrAlreadyBooked
        }
        active, err := tx.ActiveCount(req.SessionID)
        if err != nil {
            return err
        }
        if active >= sess.Capacity {
            return ErrSessionFull
        }

        price := sess.PriceCents
        var code *string
        if req.DiscountCode != "" {
            d, err := tx.DiscountByCode(req.DiscountCode)
            if err != nil {
                return err
            }
            price, err = ApplyDiscount(d, now, price)
            if err != nil {
                return err
            }
            code = &req.DiscountCode
        }

        var bundleID *uint64
        if req.BundleID != 0 {
            b, err := tx.BundleForUpdate(req.BundleID)
            if err != nil {
                return err
            }
            if b.OwnerID != req.ActorID && b.OwnerID != targetID {
                return ErrNotBundleOwner
            }
            if b.Expired(now) {
                return ErrBundleExpired
            }
            if b.CreditsLeft() == 0 {
                return ErrInsufficientCredit
            }
            if err := tx.ConsumeCredit(req.BundleID); err != nil {
                return err
            }
            // The bundle covers the session in full.
            price = 0
            id := req.BundleID
            bundleID = &id
        }

        b := &model.Booking{
            Reference:      uuid.NewString(),
            UserID:         targetID,
            SessionID:      req.SessionID,
            BundleID:       bundleID,
            Status:         model.BookingActive,
            PricePaidCents: price,
            DiscountCode:   code,
            BookedAt:       now,
        }
        if err := tx.InsertBooking(b); err != nil {
            return err
        }
        out = b
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// Cancel cancels an active booking.  The slot frees immediately; a
// bundle credit is refunded only when the cancellation lands outside
// the configured cutoff before session start.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (*model.Booking, error) {
    now := s.now()

    var out *model.Booking
    err := s.store.InTx(ctx, func(tx Tx) error {
        b, err := tx.BookingForUpdate(req.BookingID)
        if err != nil {
            return err
        }
        if err := s.authorizeCancel(ctx, req, b.UserID); err != nil {
            return err
        }
        if b.Status != model.BookingActive {
            return ErrAlreadyCancelled
        }
        sess, err := tx.SessionForUpdate(b.SessionID)
        if err != nil {
            return err
        }
        if err := tx.MarkCancelled(b.ID, now); err != nil {
            return err
        }
        if b.BundleID != nil && s.refundable(sess.StartsAt, now) {
            if err := tx.RefundCredit(*b.BundleID); err != nil {
                return err
            }
        }
        b.Status = model.BookingCancelled
        b.CancelledAt = &now
        out = b
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// resolveTarget decides who the booking is for and whether the actor
// may book for them.  Players book for themselves, parents for a
// registered child, admins for anyone who can play.
func (s *Service) resolveTarget(ctx context.Context, req BookRequest) (uint64, error) {
    target := req.ForUserID
    if target == 0 {
        target = req.ActorID
    }

    switch req.ActorRole {
    case model.RoleAdmin:
        // No restriction beyond the target existing.
    case model.RolePlayer:
        if target != req.ActorID {
            return 0, ErrForbidden
        }
        return target, nil
    case model.RoleParent:
        if target == req.ActorID {
            return 0, ErrForbidden
        }
        ok, err := s.users.IsGuardian(ctx, req.ActorID, target)
        if err != nil {
            return 0, err
        }
        if !ok {
            return 0, ErrNotGuardian
        }
    default:
        return 0, ErrForbidden
    }

    u, err := s.users.UserByID(ctx, target)
    if err != nil {
        return 0, err
    }
    if u == nil || !u.IsActive {
        return 0, ErrNotFound
    }
    if req.ActorRole == model.RoleAdmin && !u.Role.CanPlay() {
        return 0, ErrForbidden
    }
    return target, nil
}

func (s *Service) authorizeCancel(ctx context.Context, req CancelRequest, ownerID uint64) error {
    if ownerID == req.ActorID || req.ActorRole == model.RoleAdmin {
        return nil
    }
    if req.ActorRole == model.RoleParent {
        ok, err := s.users.IsGuardian(ctx, req.ActorID, ownerID)
        if err != nil {
            return err
        }
        if ok {
            return nil
        }
    }
    return ErrForbidden
}

// refundable reports whether a credit goes back on the bundle.  A zero
// cutoff refunds unconditionally.
func (s *Service) refundable(startsAt, now time.Time) bool {
    if s.policy.RefundCutoff == 0 {
        return true
    }
    return startsAt.Sub(now) >= s.policy.RefundCutoff
}
