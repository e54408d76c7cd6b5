package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
	Seed    bool

	// Page fetches: per-attempt timeout, retries after the first attempt,
	// pause between attempts, and an optional simulated latency for local
	// development.
	FetchTimeout time.Duration
	FetchRetries int
	FetchBackoff time.Duration
	FetchDelay   time.Duration

	TimeZone string
	Clock24h bool
}

func Load() Config {
	// .env is optional; real env vars win.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "bergambar.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./bergambar.log"
	}
	tz := os.Getenv("TIME_ZONE")
	if tz == "" {
		tz = "UTC"
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		LogFile:      logFile,
		Seed:         boolEnv("SEED", true),
		FetchTimeout: durationEnv("FETCH_TIMEOUT", 5*time.Second),
		FetchRetries: intEnv("FETCH_RETRIES", 1),
		FetchBackoff: durationEnv("FETCH_BACKOFF", 200*time.Millisecond),
		FetchDelay:   durationEnv("FETCH_DELAY", 0),
		TimeZone:     tz,
		Clock24h:     boolEnv("CLOCK_24H", false),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s FETCH_TIMEOUT=%s FETCH_RETRIES=%d TIME_ZONE=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.FetchTimeout, cfg.FetchRetries, cfg.TimeZone)
	return cfg
}

// PageBudget is how long a fragment may take to settle in the worst case:
// every attempt timing out plus the pauses between them. Zero means no bound.
func (c Config) PageBudget() time.Duration {
	if c.FetchTimeout <= 0 {
		return 0
	}
	n := time.Duration(c.FetchRetries + 1)
	return c.FetchDelay + n*c.FetchTimeout + (n-1)*c.FetchBackoff + time.Second
}

// Location resolves TimeZone. Empty or unknown zones render in UTC; "Local"
// is the process zone.
func (c Config) Location() *time.Location {
	switch c.TimeZone {
	case "", "UTC":
		return time.UTC
	case "Local":
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("[config] unknown TIME_ZONE %q, using UTC", c.TimeZone)
		return time.UTC
	}
	return loc
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("[config] bad %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func boolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
