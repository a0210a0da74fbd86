package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string
	LogLevel string

	Database         DatabaseConfigs
	ApiServer        ServerConfigs
	PrometheusServer ServerConfigs
	Redis            RedisConfigs
	Kafka            KafkaConfigs
	Raffle           RaffleConfigs
	Cron             CronConfigs
	Operator         OperatorConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

// ServerConfigs of a listener. An empty Port disables an optional server.
type ServerConfigs struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RedisConfigs struct {
	Addr string

	// ListingTTL bounds the staleness of cached display listings. Zero
	// disables the listing cache.
	ListingTTL time.Duration
}

type KafkaConfigs struct {
	Addrs    []string
	ClientID string
}

type RaffleConfigs struct {
	// ChainID is mixed into the signed listing message so signatures cannot be
	// replayed across deployments.
	ChainID int64
}

// OperatorConfigs holds the API keys accepted on the write routes which the
// chain indexer and the lottery operator call.
type OperatorConfigs struct {
	APIKeys []string
}

type CronConfigs struct {
	ExpiredRaffleInterval time.Duration
}

// Default returns the configuration used when no file is given.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:            "localhost",
			Port:            "3306",
			Database:        "rafflefi",
			User:            "root",
			MaxOpenConns:    14,
			MaxIdleConns:    4,
			ConnMaxLifetime: 10 * time.Minute,
		},
		ApiServer: ServerConfigs{
			Port:           "8000",
			AllowedOrigins: []string{"*"},
		},
		PrometheusServer: ServerConfigs{
			Port: "9464",
		},
		Redis: RedisConfigs{
			Addr:       "localhost:6379",
			ListingTTL: 15 * time.Second,
		},
		Kafka: KafkaConfigs{
			Addrs:    []string{"localhost:9092"},
			ClientID: "rafflefi",
		},
		Raffle: RaffleConfigs{ChainID: 1},
		Cron:   CronConfigs{ExpiredRaffleInterval: time.Minute},
	}
}

// Load reads the toml file at path on top of the default configuration. An
// empty path returns the default configuration.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if _, err := toml.Decode(string(b), &cfg); err != nil {
		return cfg, fmt.Errorf("cannot decode config %s: %w", path, err)
	}

	return cfg, nil
}
