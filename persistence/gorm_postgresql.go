// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/monopoly/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormPlayer{}, &models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveGameRecord 保存对局记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	row := models.GormGameRecord{
		GameID:          record.GameID,
		Players:         record.Players,
		WinnerID:        record.WinnerID,
		DurationMinutes: record.DurationMinutes,
		LevelGained:     record.LevelGained,
	}
	return p.db.Create(&row).Error
}

// UpsertPlayer 确保玩家档案存在
func (p *GormPostgreSQL) UpsertPlayer(userID, name string) error {
	var player models.GormPlayer
	err := p.db.Where("user_id = ?", userID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = models.GormPlayer{UserID: userID, Name: name, Level: 1}
		return p.db.Create(&player).Error
	}
	if err != nil {
		return err
	}
	if player.Name != name {
		return p.db.Model(&player).Update("name", name).Error
	}
	return nil
}

// ApplyGameOutcome 以事务方式累加一名玩家的赛后统计
func (p *GormPostgreSQL) ApplyGameOutcome(userID string, won bool, minutes, levelGained int) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var player models.GormPlayer
		if err := tx.Where("user_id = ?", userID).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"play_minutes": gorm.Expr("play_minutes + ?", minutes),
		}
		if won {
			updates["wins"] = gorm.Expr("wins + ?", 1)
			updates["level"] = gorm.Expr("level + ?", levelGained)
		} else {
			updates["losses"] = gorm.Expr("losses + ?", 1)
		}
		return tx.Model(&player).Updates(updates).Error
	})
}

// GetPlayerStats 查询玩家累计统计
func (p *GormPostgreSQL) GetPlayerStats(userID string) (*models.PlayerStats, error) {
	var player models.GormPlayer
	if err := p.db.Where("user_id = ?", userID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &models.PlayerStats{
		UserID:      player.UserID,
		TotalGames:  player.Wins + player.Losses,
		Wins:        player.Wins,
		Losses:      player.Losses,
		PlayMinutes: player.PlayMinutes,
		Level:       player.Level,
	}, nil
}

// GetLeaderboard 查询胜场排行榜
func (p *GormPostgreSQL) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := p.db.Raw(
		`SELECT user_id, name, wins, level
         FROM gorm_players
         ORDER BY wins DESC, level DESC
         LIMIT ?`, limit,
	).Scan(&entries).Error
	return entries, err
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
