package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	Debug          bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	// Driver selects the persistence implementation: "gorm" (default) or "sql".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type GameConfig struct {
	BoardFile      string `mapstructure:"board_file"`
	StartMoney     int    `mapstructure:"start_money"`
	PassGoBonus    int    `mapstructure:"pass_go_bonus"`
	MinPlayers     int    `mapstructure:"min_players"`
	MaxPlayers     int    `mapstructure:"max_players"`
	BotDelayMS     int    `mapstructure:"bot_delay_ms"`
	BotStepDelayMS int    `mapstructure:"bot_step_delay_ms"`
}

func (g GameConfig) BotDelay() time.Duration {
	return time.Duration(g.BotDelayMS) * time.Millisecond
}

func (g GameConfig) BotStepDelay() time.Duration {
	return time.Duration(g.BotStepDelayMS) * time.Millisecond
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("database.driver", "gorm")
	viper.SetDefault("game.board_file", "board/properties.json")
	viper.SetDefault("game.start_money", 1500)
	viper.SetDefault("game.pass_go_bonus", 200)
	viper.SetDefault("game.min_players", 2)
	viper.SetDefault("game.max_players", 4)
	viper.SetDefault("game.bot_delay_ms", 1500)
	viper.SetDefault("game.bot_step_delay_ms", 1000)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
