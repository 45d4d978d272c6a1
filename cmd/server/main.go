package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/football-training-center/internal/config"     // Internal config loader
    "github.com/iliyamo/football-training-center/internal/database"   // MySQL connection pool
    "github.com/iliyamo/football-training-center/internal/handler"    // HTTP handlers
    appmw "github.com/iliyamo/football-training-center/internal/middleware" // cache + rate limit middleware
    "github.com/iliyamo/football-training-center/internal/queue"      // booking event consumer
    "github.com/iliyamo/football-training-center/internal/repository" // DB repositories
    "github.com/iliyamo/football-training-center/internal/router"     // Internal router setup
    "github.com/iliyamo/football-training-center/internal/service/booking"
)

func main() {
    _ = godotenv.Load() // Load .env when present; real env wins

    cfg := config.Load() // Load environment config
    policy := config.LoadBookingPolicy()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Repositories over the shared pool.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    teams := repository.NewTeamRepo(db)
    sessions := repository.NewSessionRepo(db)
    bookings := repository.NewBookingRepo(db)
    bundles := repository.NewBundleRepo(db)
    memberships := repository.NewMembershipRepo(db)
    discounts := repository.NewDiscountRepo(db)

    // Booking core: row-locked transactions through the booking repo.
    bookingSvc := booking.NewService(bookings, users, policy, nil)

    e := echo.New()

    // Redis-backed rate limiting applied globally; the response cache
    // is scoped to session/discount browsing, never to per-user views.
    rdb := config.NewRedisClient()
    e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    userH := handler.NewUserHandler(cfg, users)
    teamH := handler.NewTeamHandler(teams)
    sessionH := handler.NewSessionHandler(sessions, bookings)
    bookingH := handler.NewBookingHandler(bookingSvc, bookings, sessions)
    bundleH := handler.NewBundleHandler(bundles)
    membershipH := handler.NewMembershipHandler(memberships)
    discountH := handler.NewDiscountHandler(discounts)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH)
    router.RegisterMember(e, router.MemberHandlers{
        Auth:        authH,
        Users:       userH,
        Teams:       teamH,
        Sessions:    sessionH,
        Bookings:    bookingH,
        Bundles:     bundleH,
        Memberships: membershipH,
        Discounts:   discountH,
    }, cfg.JWTSecret, cacheMW)
    router.RegisterStaff(e, sessionH, teamH, userH, cfg.JWTSecret)
    router.RegisterAdmin(e, router.AdminHandlers{
        Users:     userH,
        Bookings:  bookingH,
        Bundles:   bundleH,
        Discounts: discountH,
    }, cfg.JWTSecret)

    // Consume booking lifecycle events in the background; the consumer
    // reconnects on broker failures and never stops the server.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
