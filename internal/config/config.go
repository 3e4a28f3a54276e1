package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME"`
}

type VKConfig struct {
	GroupToken   string        `env:"GROUP_TOKEN"`
	GroupID      int64         `env:"GROUP_ID"`
	LongPollWait time.Duration `env:"LONGPOLL_WAIT"`
	// FlushInterval paces execute batches; it must stay under the
	// platform's per-second batch-submission limit.
	FlushInterval time.Duration `env:"FLUSH_INTERVAL"`
}

type CoinConfig struct {
	MerchantID int64  `env:"MERCHANT_ID"`
	Key        string `env:"MERCHANT_KEY"`
	// Payload tags this deployment's transactions on the shared ledger.
	Payload           int64         `env:"MERCHANT_PAYLOAD"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL"`
}

type GameConfig struct {
	InitialScore int64 `env:"INITIAL_SCORE"`
	MinBet       int64 `env:"MIN_BET"`
	MaxBet       int64 `env:"MAX_BET"`
	// WinRate is the win probability in percent.
	WinRate            int           `env:"WIN_RATE"`
	TopRefreshInterval time.Duration `env:"TOP_REFRESH_INTERVAL"`
}
