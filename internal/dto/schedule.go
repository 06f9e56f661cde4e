// Package dto holds the wire-level request and response shapes for the scheduler's
// HTTP surface (§6). Handlers bind into these and validate with go-playground
// validator before calling into the scheduler facade.
package dto

import "github.com/leaguepairings/scheduler/internal/scheduler"

// ScheduleRequest is the bound and validated form of GET /schedule's query string.
type ScheduleRequest struct {
	StartDate string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" validate:"required,datetime=2006-01-02"`
	Algorithm string `form:"algorithm" validate:"omitempty,oneof=greedy ilp"`
}

// ScheduleGame is one row of the schedule array in the response body.
type ScheduleGame struct {
	GameID       int     `json:"game_id"`
	Date         string  `json:"date"`
	TimeModifier string  `json:"time_modifier"`
	Location     string  `json:"location"`
	Division     string  `json:"division"`
	TeamA        string  `json:"team_a"`
	TeamB        string  `json:"team_b"`
	Weight       float64 `json:"weight"`
}

// ScheduleMetadata is the metadata object in the response body.
type ScheduleMetadata struct {
	TotalGames  int    `json:"total_games"`
	Algorithm   string `json:"algorithm"`
	GeneratedAt string `json:"generated_at"`
}

// ScheduleResponse is the exact shape §6 fixes for a successful /schedule call.
type ScheduleResponse struct {
	Success  bool             `json:"success"`
	Schedule []ScheduleGame   `json:"schedule"`
	Metadata ScheduleMetadata `json:"metadata"`
	Warnings []string         `json:"warnings"`
}

// FromResult maps a scheduler.Result onto the wire response shape.
func FromResult(result *scheduler.Result) ScheduleResponse {
	games := make([]ScheduleGame, len(result.Schedule))
	for i, g := range result.Schedule {
		games[i] = ScheduleGame{
			GameID:       g.GameID,
			Date:         g.Date,
			TimeModifier: g.TimeModifier,
			Location:     g.Location,
			Division:     g.Division,
			TeamA:        g.TeamA,
			TeamB:        g.TeamB,
			Weight:       g.Weight,
		}
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return ScheduleResponse{
		Success:  true,
		Schedule: games,
		Metadata: ScheduleMetadata{
			TotalGames:  result.Metadata.TotalGames,
			Algorithm:   result.Metadata.Algorithm,
			GeneratedAt: result.Metadata.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		Warnings: warnings,
	}
}
