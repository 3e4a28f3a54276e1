package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/vcoingame/internal/config"
)

type botConfig struct {
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT"`
	AdminPort       uint16        `env:"ADMIN_PORT"`

	Postgres config.PostgresConfig
	VK       config.VKConfig
	Coin     config.CoinConfig
	Game     config.GameConfig
}
