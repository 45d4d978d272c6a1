package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/football-training-center/internal/model"
)

// TeamRepo provides CRUD operations for teams and their rosters.  A team
// references its coach by ID and holds players through the team_players
// join table.  Roster mutations validate the role of every user touched
// so that only coaches coach and only players (or child accounts) appear
// on rosters.
type TeamRepo struct {
    db *sql.DB
}

// NewTeamRepo returns a new TeamRepo bound to the given database.
func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

var (
    ErrTeamNotFound   = errors.New("team not found")
    ErrTeamNameExists = errors.New("team name already exists")
)

// TeamDetail is a team together with its coach name and roster.  It is
// the shape returned to clients by team read endpoints.
type TeamDetail struct {
    ID        uint64       `json:"id"`
    Name      string       `json:"name"`
    CoachID   *uint64      `json:"coach_id,omitempty"`
    CoachName *string      `json:"coach_name,omitempty"`
    Players   []TeamPlayer `json:"players"`
}

// TeamPlayer is a single roster entry with display fields.
type TeamPlayer struct {
    UserID   uint64 `json:"user_id"`
    FullName string `json:"full_name"`
    Role     string `json:"role"`
}

// Create inserts a new team.  The coach, when given, must be an active
// user with role COACH; otherwise ErrUserNotFound is returned.
func (r *TeamRepo) Create(ctx context.Context, name string, coachID *uint64) (uint64, error) {
    if coachID != nil {
        if err := r.checkCoach(ctx, *coachID); err != nil {
            return 0, err
        }
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO teams (name, coach_id) VALUES (?,?)", name, coachID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrTeamNameExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// checkCoach verifies that the user exists, is active and has role COACH.
func (r *TeamRepo) checkCoach(ctx context.Context, coachID uint64) error {
    var one int
    err := r.db.QueryRowContext(ctx,
        "SELECT 1 FROM users WHERE id=? AND role=? AND is_active=1 LIMIT 1",
        coachID, string(model.RoleCoach)).Scan(&one)
    if err == sql.ErrNoRows {
        return ErrUserNotFound
    }
    return err
}

// GetByID loads a team with its coach name and full roster.  Returns
// ErrTeamNotFound when the team does not exist.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*TeamDetail, error) {
    const q = `SELECT t.id, t.name, t.coach_id, u.full_name
               FROM teams t
               LEFT JOIN users u ON u.id = t.coach_id
               WHERE t.id = ?`
    var det TeamDetail
    var coachID sql.NullInt64
    var coachName sql.NullString
    err := r.db.QueryRowContext(ctx, q, id).Scan(&det.ID, &det.Name, &coachID, &coachName)
    if err == sql.ErrNoRows {
        return nil, ErrTeamNotFound
    }
    if err != nil {
        return nil, err
    }
    if coachID.Valid {
        cid := uint64(coachID.Int64)
        det.CoachID = &cid
    }
    if coachName.Valid {
        cn := coachName.String
        det.CoachName = &cn
    }
    players, err := r.roster(ctx, id)
    if err != nil {
        return nil, err
    }
    det.Players = players
    return &det, nil
}

func (r *TeamRepo) roster(ctx context.Context, teamID uint64) ([]TeamPlayer, error) {
    const q = `SELECT u.id, u.full_name, u.role
               FROM team_players tp
               JOIN users u ON u.id = tp.player_id
               WHERE tp.team_id = ?
               ORDER BY u.full_name`
    rows, err := r.db.QueryContext(ctx, q, teamID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    players := make([]TeamPlayer, 0)
    for rows.Next() {
        var p TeamPlayer
        if err := rows.Scan(&p.UserID, &p.FullName, &p.Role); err != nil {
            return nil, err
        }
        players = append(players, p)
    }
    return players, rows.Err()
}

// List returns all teams with coach names and roster sizes, ordered by
// team name.
func (r *TeamRepo) List(ctx context.Context) ([]TeamSummary, error) {
    const q = `SELECT t.id, t.name, t.coach_id, u.full_name,
                      (SELECT COUNT(*) FROM team_players tp WHERE tp.team_id = t.id)
               FROM teams t
               LEFT JOIN users u ON u.id = t.coach_id
               ORDER BY t.name`
    return r.listSummaries(ctx, q)
}

// TeamSummary is the list shape for teams: no roster, just a count.
type TeamSummary struct {
    ID           uint64  `json:"id"`
    Name         string  `json:"name"`
    CoachID      *uint64 `json:"coach_id,omitempty"`
    CoachName    *string `json:"coach_name,omitempty"`
    PlayersCount int     `json:"players_count"`
}

func (r *TeamRepo) listSummaries(ctx context.Context, q string, args ...any) ([]TeamSummary, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    teams := make([]TeamSummary, 0)
    for rows.Next() {
        var s TeamSummary
        var coachID sql.NullInt64
        var coachName sql.NullString
        if err := rows.Scan(&s.ID, &s.Name, &coachID, &coachName, &s.PlayersCount); err != nil {
            return nil, err
        }
        if coachID.Valid {
            cid := uint64(coachID.Int64)
            s.CoachID = &cid
        }
        if coachName.Valid {
            cn := coachName.String
            s.CoachName = &cn
        }
        teams = append(teams, s)
    }
    return teams, rows.Err()
}

// ListForUser returns the teams visible to a non-admin user: the teams
// they coach plus the teams they play on.
func (r *TeamRepo) ListForUser(ctx context.Context, userID uint64) ([]TeamSummary, error) {
    const q = `SELECT DISTINCT t.id, t.name, t.coach_id, u.full_name,
                      (SELECT COUNT(*) FROM team_players tp WHERE tp.team_id = t.id)
               FROM teams t
               LEFT JOIN users u ON u.id = t.coach_id
               LEFT JOIN team_players tp2 ON tp2.team_id = t.id
               WHERE t.coach_id = ? OR tp2.player_id = ?
               ORDER BY t.name`
    return r.listSummaries(ctx, q, userID, userID)
}

// AssignCoach sets or clears the team's coach.  Passing nil clears the
// assignment.  Returns ErrTeamNotFound when the team does not exist and
// ErrUserNotFound when the coach is invalid.
func (r *TeamRepo) AssignCoach(ctx context.Context, teamID uint64, coachID *uint64) error {
    if coachID != nil {
        if err := r.checkCoach(ctx, *coachID); err != nil {
            return err
        }
    }
    res, err := r.db.ExecContext(ctx,
        "UPDATE teams SET coach_id=?, updated_at=NOW() WHERE id=?", coachID, teamID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected is also 0 when the coach is unchanged; confirm existence.
        var one int
        if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM teams WHERE id=? LIMIT 1", teamID).Scan(&one); err == sql.ErrNoRows {
            return ErrTeamNotFound
        } else if err != nil {
            return err
        }
    }
    return nil
}

// AddPlayers adds the given users to the team roster and returns the IDs
// actually added.  Users that are not active PLAYER/CHILD accounts or
// that are already on the roster are skipped silently, mirroring the
// add-then-report behaviour clients expect.
func (r *TeamRepo) AddPlayers(ctx context.Context, teamID uint64, playerIDs []uint64) ([]uint64, error) {
    if _, err := r.GetByID(ctx, teamID); err != nil {
        return nil, err
    }
    added := make([]uint64, 0, len(playerIDs))
    for _, pid := range playerIDs {
        var one int
        err := r.db.QueryRowContext(ctx,
            "SELECT 1 FROM users WHERE id=? AND role IN (?,?) AND is_active=1 LIMIT 1",
            pid, string(model.RolePlayer), string(model.RoleChild)).Scan(&one)
        if err == sql.ErrNoRows {
            continue
        }
        if err != nil {
            return nil, err
        }
        res, err := r.db.ExecContext(ctx,
            "INSERT IGNORE INTO team_players (team_id, player_id) VALUES (?,?)", teamID, pid)
        if err != nil {
            return nil, err
        }
        if n, err := res.RowsAffected(); err == nil && n > 0 {
            added = append(added, pid)
        }
    }
    return added, nil
}

// TeamStats aggregates coach coverage plus per-team roster sizes.
type TeamStats struct {
    TotalTeams        int           `json:"total_teams"`
    TeamsWithCoach    int           `json:"teams_with_coach"`
    TeamsWithoutCoach int           `json:"teams_without_coach"`
    Teams             []TeamSummary `json:"teams"`
}

// Stats returns center-wide team aggregates.  COUNT(coach_id) skips
// NULLs, so it counts exactly the teams with a coach assigned.
func (r *TeamRepo) Stats(ctx context.Context) (*TeamStats, error) {
    var s TeamStats
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*), COUNT(coach_id) FROM teams").Scan(&s.TotalTeams, &s.TeamsWithCoach)
    if err != nil {
        return nil, err
    }
    s.TeamsWithoutCoach = s.TotalTeams - s.TeamsWithCoach
    teams, err := r.List(ctx)
    if err != nil {
        return nil, err
    }
    s.Teams = teams
    return &s, nil
}

// RemovePlayers deletes the given users from the roster and returns the
// IDs actually removed.
func (r *TeamRepo) RemovePlayers(ctx context.Context, teamID uint64, playerIDs []uint64) ([]uint64, error) {
    if _, err := r.GetByID(ctx, teamID); err != nil {
        return nil, err
    }
    removed := make([]uint64, 0, len(playerIDs))
    for _, pid := range playerIDs {
        res, err := r.db.ExecContext(ctx,
            "DELETE FROM team_players WHERE team_id=? AND player_id=?", teamID, pid)
        if err != nil {
            return nil, err
        }
        if n, err := res.RowsAffected(); err == nil && n > 0 {
            removed = append(removed, pid)
        }
    }
    return removed, nil
}
