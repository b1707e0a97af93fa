package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	// Archive store. Optional: with ArchiveEnabled=false the sim keeps loan
	// history in memory only.
	ArchiveEnabled bool
	MySQLHost      string
	MySQLPort      string
	MySQLDB        string
	MySQLUser      string
	MySQLPass      string

	// Idempotency store. Optional as well.
	IdempotencyEnabled bool
	RedisAddr          string
	RedisPass          string
	RedisDB            int
	IdempTTLSecs       int

	// Simulation pacing.
	TickMS        int
	EMIIntervalMS int

	// Fresh-player seed values.
	StartBalance float64
	StartLevel   int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "8080"),

		ArchiveEnabled: getbool("ARCHIVE_ENABLED", false),
		MySQLHost:      getenv("MYSQL_HOST", "mysql"),
		MySQLPort:      getenv("MYSQL_PORT", "3306"),
		MySQLDB:        getenv("MYSQL_DB", "tycoon"),
		MySQLUser:      getenv("MYSQL_USER", "tycoon"),
		MySQLPass:      getenv("MYSQL_PASS", "tycoon"),

		IdempotencyEnabled: getbool("IDEMPOTENCY_ENABLED", false),
		RedisAddr:          getenv("REDIS_ADDR", "redis:6379"),
		RedisPass:          getenv("REDIS_PASS", ""),
		RedisDB:            getint("REDIS_DB", 0),
		IdempTTLSecs:       getint("IDEMPOTENCY_TTL_SECONDS", 300),

		TickMS:        getint("TICK_MS", 250),
		EMIIntervalMS: getint("EMI_INTERVAL_MS", 30_000),

		StartBalance: getfloat("START_BALANCE", 0),
		StartLevel:   getint("START_LEVEL", 1),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.TickMS <= 0 {
		return fmt.Errorf("TICK_MS must be positive, got %d", c.TickMS)
	}
	if c.EMIIntervalMS <= 0 {
		return fmt.Errorf("EMI_INTERVAL_MS must be positive, got %d", c.EMIIntervalMS)
	}
	if c.StartLevel < 1 {
		return fmt.Errorf("START_LEVEL must be >= 1, got %d", c.StartLevel)
	}
	if c.ArchiveEnabled {
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	}
	if c.IdempotencyEnabled && c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME scanning into time.Time
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
