package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"klsetracker/internal/quote"
)

type Tracker struct {
	OutputDir            string `json:"output_dir"`
	LogDir               string `json:"log_dir"`
	RequestTimeoutSec    int    `json:"request_timeout_sec"`
	FetchIntervalSec     int    `json:"fetch_interval_sec"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
	Burst                int    `json:"burst"`
	FetchRetries         int    `json:"fetch_retries"`
}

type Yahoo struct {
	Endpoint  string `json:"endpoint"`
	UserAgent string `json:"user_agent"`
}

type SMTP struct {
	Enabled   bool   `json:"enabled"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	From      string `json:"from"`
	Recipient string `json:"recipient"`
	Username  string `json:"username"`
	// Password is environment-only (SMTP_PASSWORD); it is never read
	// from or written to the config file.
	Password string `json:"-"`
}

type Config struct {
	Tracker Tracker             `json:"tracker"`
	Yahoo   Yahoo               `json:"yahoo"`
	SMTP    SMTP                `json:"smtp"`
	Symbols []quote.SymbolEntry `json:"symbols"`
}

func Default() Config {
	return Config{
		Tracker: Tracker{
			RequestTimeoutSec: 15,
			FetchIntervalSec:  1,
			FetchRetries:      2,
		},
		Yahoo: Yahoo{
			UserAgent: "klse-tracker/1.0",
		},
		SMTP: SMTP{
			Enabled: true,
			Host:    "smtp.gmail.com",
			Port:    587,
		},
		Symbols: DefaultSymbols(),
	}
}

// DefaultSymbols is the tracked Bursa Malaysia list. Order matters: it
// is the report and CSV row order.
func DefaultSymbols() []quote.SymbolEntry {
	return []quote.SymbolEntry{
		{Name: "BAuto", Ticker: "5248.KL"},
		{Name: "Bursa", Ticker: "1818.KL"},
		{Name: "CIMB", Ticker: "1023.KL"},
		{Name: "Dayang", Ticker: "5141.KL"},
		{Name: "GenM", Ticker: "4715.KL"},
		{Name: "HapSeng", Ticker: "3034.KL"},
		{Name: "HLC", Ticker: "5274.KL"},
		{Name: "HSPlant", Ticker: "5138.KL"},
		{Name: "IGBCR", Ticker: "5299.KL"},
		{Name: "IGBREIT", Ticker: "5227.KL"},
		{Name: "IJM", Ticker: "3336.KL"},
		{Name: "Inari", Ticker: "0166.KL"},
		{Name: "KIPREIT", Ticker: "5280.KL"},
		{Name: "Kim Loong Resources Berhad", Ticker: "5027.KL"},
		{Name: "Magnum Berhad", Ticker: "3859.KL"},
		{Name: "Maxis", Ticker: "6012.KL"},
		{Name: "MayBank", Ticker: "1155.KL"},
		{Name: "MBSB", Ticker: "1171.KL"},
		{Name: "PAVREIT", Ticker: "5212.KL"},
		{Name: "Public Bank Berhad", Ticker: "1295.KL"},
		{Name: "Petronas Chemicals Group Berhad", Ticker: "5183.KL"},
		{Name: "PetGas", Ticker: "6033.KL"},
		{Name: "PPB", Ticker: "4065.KL"},
		{Name: "RHBBank", Ticker: "1066.KL"},
		{Name: "Sentral REIT", Ticker: "5123.KL"},
		{Name: "Sime", Ticker: "4197.KL"},
		{Name: "SToto", Ticker: "1562.KL"},
		{Name: "Tenaga", Ticker: "5347.KL"},
		{Name: "UOADev", Ticker: "5200.KL"},
		{Name: "UOAREIT", Ticker: "5110.KL"},
		{Name: "YTLPowr", Ticker: "6742.KL"},
	}
}

// Load reads JSON config from path. If path is empty or the file does
// not exist, it returns defaults. Environment variables override select
// fields for secrecy. The SMTP password is mandatory when email is
// enabled; Load fails rather than fall back to a placeholder.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("config: empty symbol list")
	}
	if c.SMTP.Enabled {
		if c.SMTP.Recipient == "" || c.SMTP.From == "" || c.SMTP.Username == "" {
			return errors.New("config: smtp enabled but from/recipient/username not set")
		}
		if c.SMTP.Password == "" {
			return errors.New("config: SMTP_PASSWORD is required when email is enabled")
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Tracker.OutputDir = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.Tracker.LogDir = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Tracker.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("FETCH_INTERVAL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Tracker.FetchIntervalSec = x
		}
	}
	if v := os.Getenv("FETCH_MAX_RPM"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Tracker.MaxRequestsPerMinute = x
		}
	}
	if v := os.Getenv("FETCH_BURST"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Tracker.Burst = x
		}
	}
	if v := os.Getenv("FETCH_RETRIES"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Tracker.FetchRetries = x
		}
	}
	if v := os.Getenv("YAHOO_ENDPOINT"); v != "" {
		cfg.Yahoo.Endpoint = v
	}
	if v := os.Getenv("YAHOO_USER_AGENT"); v != "" {
		cfg.Yahoo.UserAgent = v
	}
	if v := os.Getenv("SMTP_ENABLED"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			cfg.SMTP.Enabled = true
		case "0", "false", "no", "n":
			cfg.SMTP.Enabled = false
		}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.SMTP.Port = x
		}
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.SMTP.From = v
	}
	if v := os.Getenv("SMTP_RECIPIENT"); v != "" {
		cfg.SMTP.Recipient = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
}
