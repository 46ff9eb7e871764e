// models/models.go
package models

import (
	"time"
)

// PlayerInfo is one participant's line in a finished-game record.
type PlayerInfo struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Outcome string `json:"outcome"` // win/lose
	Money   int    `json:"money"`
	Bot     bool   `json:"bot"`
}

// GameRecord is the history entry written when a match ends.
type GameRecord struct {
	GameID          string       `json:"game_id"`
	Players         []PlayerInfo `json:"players"`
	WinnerID        string       `json:"winner_id"`
	DurationMinutes int          `json:"duration_minutes"`
	LevelGained     int          `json:"level_gained"`
	CreatedAt       time.Time    `json:"created_at"`
}

// PlayerStats is the aggregate view served to clients and over RPC.
type PlayerStats struct {
	UserID      string `json:"user_id"`
	TotalGames  int    `json:"total_games"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	PlayMinutes int    `json:"play_minutes"`
	Level       int    `json:"level"`
}

// LeaderboardEntry is one row of the cross-game leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Level  int    `json:"level"`
}
