// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/monopoly/models"
)

// PostgreSQL is the plain database/sql implementation of Database,
// selected with database.driver = "sql".
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS players (
            id SERIAL PRIMARY KEY,
            user_id VARCHAR(255) UNIQUE NOT NULL,
            name VARCHAR(255) NOT NULL,
            level INT NOT NULL DEFAULT 1,
            wins INT NOT NULL DEFAULT 0,
            losses INT NOT NULL DEFAULT 0,
            play_minutes INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            game_id VARCHAR(255) UNIQUE NOT NULL,
            players JSONB NOT NULL,
            winner_id VARCHAR(255),
            duration_minutes INT NOT NULL DEFAULT 0,
            level_gained INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_players_user_id ON players(user_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_winner ON game_records(winner_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_created_at ON game_records(created_at);
    `)

	return err
}

// SaveGameRecord 保存对局记录
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO game_records (game_id, players, winner_id, duration_minutes, level_gained)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = p.db.ExecContext(ctx, query,
		record.GameID, playersJSON, record.WinnerID,
		record.DurationMinutes, record.LevelGained)
	return err
}

// UpsertPlayer 确保玩家档案存在
func (p *PostgreSQL) UpsertPlayer(userID, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO players (user_id, name)
        VALUES ($1, $2)
        ON CONFLICT (user_id)
        DO UPDATE SET name = $2, updated_at = CURRENT_TIMESTAMP
    `
	_, err := p.db.ExecContext(ctx, query, userID, name)
	return err
}

// ApplyGameOutcome 累加一名玩家的赛后统计
func (p *PostgreSQL) ApplyGameOutcome(userID string, won bool, minutes, levelGained int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var query string
	if won {
		query = `
            UPDATE players
            SET wins = wins + 1, level = level + $2, play_minutes = play_minutes + $3,
                updated_at = CURRENT_TIMESTAMP
            WHERE user_id = $1
        `
		_, err := p.db.ExecContext(ctx, query, userID, levelGained, minutes)
		return err
	}
	query = `
        UPDATE players
        SET losses = losses + 1, play_minutes = play_minutes + $2,
            updated_at = CURRENT_TIMESTAMP
        WHERE user_id = $1
    `
	_, err := p.db.ExecContext(ctx, query, userID, minutes)
	return err
}

// GetPlayerStats 查询玩家累计统计
func (p *PostgreSQL) GetPlayerStats(userID string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats models.PlayerStats
	query := `SELECT user_id, wins, losses, play_minutes, level FROM players WHERE user_id = $1`
	err := p.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID, &stats.Wins, &stats.Losses, &stats.PlayMinutes, &stats.Level)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	stats.TotalGames = stats.Wins + stats.Losses
	return &stats, nil
}

// GetLeaderboard 查询胜场排行榜
func (p *PostgreSQL) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        SELECT user_id, name, wins, level
        FROM players
        ORDER BY wins DESC, level DESC
        LIMIT $1
    `
	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Wins, &e.Level); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
