package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"a2a/internal/app"
)

// Prefix is prepended to every environment key.
const Prefix = "A2A_"

// Config holds runtime settings for the bot.
type Config struct {
	Channel   string `env:"CHANNEL"    envDefault:"a2a"`
	BotName   string `env:"BOT_NAME"   envDefault:"A2A"`
	StorePath string `env:"STORE_PATH" envDefault:"a2a.db"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// QueueSize bounds inbound chat events waiting for the runner.
	QueueSize int `env:"QUEUE_SIZE" envDefault:"256"`
	// SendRate is outbound messages per second; SendBurst allows short bursts above it.
	SendRate  float64 `env:"SEND_RATE"  envDefault:"2"`
	SendBurst int     `env:"SEND_BURST" envDefault:"5"`

	AwaitPlayers     time.Duration `env:"AWAIT_PLAYERS"     envDefault:"120s"`
	ExtraPlayerTime  time.Duration `env:"EXTRA_PLAYER_TIME" envDefault:"10s"`
	WarningTime      time.Duration `env:"WARNING_TIME"      envDefault:"10s"`
	BetweenRounds    time.Duration `env:"BETWEEN_ROUNDS"    envDefault:"15s"`
	AwaitSubmissions time.Duration `env:"AWAIT_SUBMISSIONS" envDefault:"80s"`
	AwaitJudgement   time.Duration `env:"AWAIT_JUDGEMENT"   envDefault:"50s"`
}

// Load parses configuration from environ. Keys are matched case-insensitively
// so the lower-case keys of a Nakama runtime env work as well as os.Environ.
func Load(environ map[string]string) (Config, error) {
	upper := make(map[string]string, len(environ))
	for k, v := range environ {
		upper[strings.ToUpper(k)] = v
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: upper, Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnvironMap converts KEY=value pairs as returned by os.Environ.
func EnvironMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}

func (c Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Channel) == "" {
		errs = append(errs, errors.New("channel is required"))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.LogFormat))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("queue size must be positive, got %d", c.QueueSize))
	}
	if c.SendRate <= 0 {
		errs = append(errs, fmt.Errorf("send rate must be positive, got %v", c.SendRate))
	}
	if c.SendBurst <= 0 {
		errs = append(errs, fmt.Errorf("send burst must be positive, got %d", c.SendBurst))
	}
	for name, d := range map[string]time.Duration{
		"await players":     c.AwaitPlayers,
		"extra player time": c.ExtraPlayerTime,
		"warning time":      c.WarningTime,
		"between rounds":    c.BetweenRounds,
		"await submissions": c.AwaitSubmissions,
		"await judgement":   c.AwaitJudgement,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}

// Timings returns the phase lengths for the match service.
func (c Config) Timings() app.Timings {
	return app.Timings{
		AwaitPlayers:     c.AwaitPlayers,
		ExtraPlayerTime:  c.ExtraPlayerTime,
		Warning:          c.WarningTime,
		BetweenRounds:    c.BetweenRounds,
		AwaitSubmissions: c.AwaitSubmissions,
		AwaitJudgement:   c.AwaitJudgement,
	}
}
