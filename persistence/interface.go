// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/monopoly/models"
)

// Database is the external history/statistics recorder consumed by the
// game core. In-flight matches are never persisted; only finished games
// and per-player aggregates cross this boundary.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	UpsertPlayer(userID, name string) error
	ApplyGameOutcome(userID string, won bool, minutes, levelGained int) error
	GetPlayerStats(userID string) (*models.PlayerStats, error)
	GetLeaderboard(limit int) ([]models.LeaderboardEntry, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
