package services

import (
	"time"

	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/persistence"
)

// HistoryService records finished games and serves cross-game statistics.
// It is an external collaborator of the game core: the registry calls
// RecordGameEnd once per match and never depends on a result.
type HistoryService struct {
	db persistence.Database
}

func NewHistoryService(db persistence.Database) *HistoryService {
	return &HistoryService{db: db}
}

// EnsurePlayer creates or refreshes a player profile at join time. Bots
// are not tracked.
func (s *HistoryService) EnsurePlayer(userID, name string) {
	if err := s.db.UpsertPlayer(userID, name); err != nil {
		logger.Log.Errorf("Failed to upsert player %s: %v", userID, err)
	}
}

// RecordGameEnd persists the match record and folds the outcome into
// every human participant's aggregates. Failures are logged, never
// surfaced to the match flow.
func (s *HistoryService) RecordGameEnd(gameID string, players []models.PlayerInfo, durationMinutes int, winnerID string, levelGained int) {
	record := &models.GameRecord{
		GameID:          gameID,
		Players:         players,
		WinnerID:        winnerID,
		DurationMinutes: durationMinutes,
		LevelGained:     levelGained,
		CreatedAt:       time.Now(),
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to save game record %s: %v", gameID, err)
	}

	for _, p := range players {
		if p.Bot {
			continue
		}
		won := p.UserID == winnerID
		gained := 0
		if won {
			gained = levelGained
		}
		if err := s.db.ApplyGameOutcome(p.UserID, won, durationMinutes, gained); err != nil {
			logger.Log.Errorf("Failed to apply outcome for player %s: %v", p.UserID, err)
		}
	}
}

// GetPlayerStats returns one player's cross-game aggregates.
func (s *HistoryService) GetPlayerStats(userID string) (*models.PlayerStats, error) {
	return s.db.GetPlayerStats(userID)
}

// Leaderboard returns the top players by wins.
func (s *HistoryService) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.db.GetLeaderboard(limit)
}
