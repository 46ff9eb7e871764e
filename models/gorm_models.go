// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormPlayer 玩家模型
type GormPlayer struct {
	gorm.Model
	UserID      string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Level       int    `gorm:"default:1"`
	Wins        int    `gorm:"default:0"`
	Losses      int    `gorm:"default:0"`
	PlayMinutes int    `gorm:"default:0"`
}

// GormGameRecord 对局记录模型
type GormGameRecord struct {
	gorm.Model
	GameID          string       `gorm:"uniqueIndex;not null"`
	Players         []PlayerInfo `gorm:"type:jsonb;serializer:json"`
	WinnerID        string       `gorm:"index"`
	DurationMinutes int          `gorm:"default:0"`
	LevelGained     int          `gorm:"default:0"`
}
