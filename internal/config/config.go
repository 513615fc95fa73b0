package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Required environment variables. Each may also be set in the config file,
// but a non-empty environment value always wins.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollSchedule = "10m"
)

type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
}

type PracticumConfig struct {
	Token    string `json:"token,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	// PollSchedule is a Go duration string ("10m") or a "cron:"-prefixed
	// cron expression ("cron:*/10 * * * *").
	PollSchedule string `json:"poll_schedule,omitempty"`

	// RequestTimeout is a Go duration string. Empty means 15s.
	RequestTimeout string `json:"request_timeout,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token,omitempty"`

	// ChatID is kept as a string because it arrives via the environment;
	// ParseChatID converts it for the transport layer.
	ChatID string `json:"chat_id,omitempty"`

	// ClientTimeout bounds each Bot API call. Empty means 10s.
	ClientTimeout string `json:"client_timeout,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level,omitempty"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// StorageConfig controls the optional send-history audit store.
//
// Example:
//
//	storage: { driver: file, path: ./hwbot_store }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// Default returns the configuration used when no config file is present:
// console logging, the stock Practicum endpoint, a 10 minute poll cadence.
func Default() *Config {
	return &Config{
		Practicum: PracticumConfig{
			Endpoint:     DefaultEndpoint,
			PollSchedule: DefaultPollSchedule,
		},
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}

// Load reads the config file (JSON or YAML) when it exists, fills defaults,
// and overlays the three secrets from the environment. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			parsed, perr := Parse(path, b)
			if perr != nil {
				return nil, perr
			}
			cfg = parsed
		case os.IsNotExist(err):
			// fall through to env-only configuration
		default:
			return nil, err
		}
	}
	cfg.fillDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Parse decodes config bytes strictly: unknown keys and trailing data are
// rejected so typos surface at startup rather than silently doing nothing.
func Parse(path string, data []byte) (*Config, error) {
	jb, _, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fillDefaults() {
	if strings.TrimSpace(c.Practicum.Endpoint) == "" {
		c.Practicum.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(c.Practicum.PollSchedule) == "" {
		c.Practicum.PollSchedule = DefaultPollSchedule
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPracticumToken); v != "" {
		c.Practicum.Token = v
	}
	if v := os.Getenv(EnvTelegramToken); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(EnvTelegramChatID); v != "" {
		c.Telegram.ChatID = v
	}
}

// Validate checks the startup contract: all three secrets must be present.
// The returned error names every missing value so the operator can fix them
// in one pass. This check is fatal and not retried.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Practicum.Token) == "" {
		missing = append(missing, EnvPracticumToken)
	}
	if strings.TrimSpace(c.Telegram.Token) == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		missing = append(missing, EnvTelegramChatID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if _, err := c.ParseChatID(); err != nil {
		return err
	}
	return nil
}

func (c *Config) ParseChatID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Telegram.ChatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: not a chat id: %q", EnvTelegramChatID, c.Telegram.ChatID)
	}
	return id, nil
}
