package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/football-training-center/internal/repository"
)

// TeamHandler exposes team CRUD and roster management. Creation and
// roster edits are staff operations; members see the teams they belong
// to through MyTeams.
type TeamHandler struct {
    Teams *repository.TeamRepo
}

func NewTeamHandler(t *repository.TeamRepo) *TeamHandler {
    return &TeamHandler{Teams: t}
}

type createTeamReq struct {
    Name    string  `json:"name"`
    CoachID *uint64 `json:"coach_id"`
}

// Create makes a new team, optionally with a coach assigned up front.
func (h *TeamHandler) Create(c echo.Context) error {
    var req createTeamReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Teams.Create(ctx, req.Name, req.CoachID)
    if err != nil {
        switch err {
        case repository.ErrTeamNameExists:
            return c.JSON(http.StatusConflict, echo.Map{"error": "team name already exists"})
        case repository.ErrUserNotFound:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "coach not found or not a coach"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create team failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Get returns one team with its roster.
func (h *TeamHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    team, err := h.Teams.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrTeamNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
    }
    return c.JSON(http.StatusOK, team)
}

// List returns all teams.
func (h *TeamHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    teams, err := h.Teams.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list teams failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"teams": teams})
}

// MyTeams returns the teams the caller belongs to, as player or coach.
func (h *TeamHandler) MyTeams(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    teams, err := h.Teams.ListForUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list teams failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"teams": teams})
}

type assignCoachReq struct {
    CoachID *uint64 `json:"coach_id"` // null clears the assignment
}

// AssignCoach sets or clears a team's coach.
func (h *TeamHandler) AssignCoach(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req assignCoachReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Teams.AssignCoach(ctx, id, req.CoachID); err != nil {
        switch err {
        case repository.ErrTeamNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
        case repository.ErrUserNotFound:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "coach not found or not a coach"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign coach failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

type rosterReq struct {
    PlayerIDs []uint64 `json:"player_ids"`
}

// AddPlayers adds players to the roster. Users that are not playing
// roles are skipped; the response reports who was actually added.
func (h *TeamHandler) AddPlayers(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req rosterReq
    if err := c.Bind(&req); err != nil || len(req.PlayerIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "player_ids required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    added, err := h.Teams.AddPlayers(ctx, id, req.PlayerIDs)
    if err != nil {
        if err == repository.ErrTeamNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add players failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"added": added})
}

// RemovePlayers drops players from the roster.
func (h *TeamHandler) RemovePlayers(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req rosterReq
    if err := c.Bind(&req); err != nil || len(req.PlayerIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "player_ids required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    removed, err := h.Teams.RemovePlayers(ctx, id, req.PlayerIDs)
    if err != nil {
        if err == repository.ErrTeamNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove players failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"removed": removed})
}

// Stats returns coach coverage and roster sizes across all teams.
func (h *TeamHandler) Stats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    stats, err := h.Teams.Stats(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
    }
    return c.JSON(http.StatusOK, stats)
}
