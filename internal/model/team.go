package model

import "time"

// Team groups players under an optional coach.  Rows live in the `teams`
// table; roster membership is stored in `team_players`.  A player may
// belong to any number of teams.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique team name.
//  CoachID   – user with role COACH, or null when unassigned.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Team struct {
    ID        uint64    // teams.id
    Name      string    // teams.name
    CoachID   *uint64   // teams.coach_id (nullable)
    CreatedAt time.Time // teams.created_at
    UpdatedAt time.Time // teams.updated_at
}

// TeamPlayer links a team to a roster member in the `team_players` table.
type TeamPlayer struct {
    TeamID   uint64 // team_players.team_id
    PlayerID uint64 // team_players.player_id
}
