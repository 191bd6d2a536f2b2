// Package config implements the process configuration layer
// (SPEC_FULL.md §2 "Configuration"), grounded on the teacher's
// pkg/config/config.go: a jsoniter-decoded file plus an fsnotify-backed
// watcher (watcher.go) for hot-reload.
package config

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"tgo/pkg/listeners"
	"tgo/pkg/throttle"
	"tgo/pkg/types"
)

// json is the drop-in encoding/json replacement used across this
// framework.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the process-level configuration for an echobot-style
// binary: the bot's credentials, the rate limits fed to the throttler,
// the default parse mode, and (optionally) the webhook receiver.
type Config struct {
	// Token is the bot's Bot API token (pkg/token.Validate is applied
	// to it at startup, never here).
	Token string `json:"token"`
	// APIBaseURL overrides the Bot API origin, empty meaning
	// "https://api.telegram.org" (bot.New's default).
	APIBaseURL string `json:"api_base_url"`
	// Proxy, if set, routes every Bot API call through this HTTP(S)
	// proxy URL.
	Proxy string `json:"proxy"`
	// Limits is the throttler's starting Limits; cmd/echobot builds a
	// fresh Throttle from it on every reload.
	Limits throttle.Limits `json:"limits"`
	// ParseMode is the default parse_mode the DefaultParseMode adaptor
	// injects into outgoing messages that don't set their own.
	ParseMode types.ParseMode `json:"parse_mode"`
	// Webhook configures the webhook listener. Leave Addr empty to use
	// long polling instead.
	Webhook WebhookConfig `json:"webhook"`
}

// WebhookConfig mirrors listeners.WebhookConfig in a JSON-friendly
// shape (time.Duration doesn't unmarshal from a plain JSON number the
// way Bot API's own millisecond fields do).
type WebhookConfig struct {
	Addr               string `json:"addr"`
	Path               string `json:"path"`
	SecretToken        string `json:"secret_token"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec"`
}

// Enabled reports whether the config selects the webhook listener over
// long polling.
func (w WebhookConfig) Enabled() bool { return w.Addr != "" }

// ToListenerConfig converts to the type listeners.NewWebhook expects.
func (w WebhookConfig) ToListenerConfig() listeners.WebhookConfig {
	return listeners.WebhookConfig{
		Addr:            w.Addr,
		Path:            w.Path,
		SecretToken:     w.SecretToken,
		ShutdownTimeout: time.Duration(w.ShutdownTimeoutSec) * time.Second,
	}
}

// Defaults returns a Config with the documented default Limits
// (30/1/20/0, spec.md §4.5) and HTML as the default parse mode.
// Callers still need to set Token.
func Defaults() *Config {
	return &Config{
		Limits:    throttle.DefaultLimits(),
		ParseMode: types.ParseModeHTML,
	}
}

// Validate ensures the configuration carries the fields everything else
// depends on.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("config: 'token' is missing or empty")
	}
	return nil
}

// Load reads and parses path, starting from Defaults() so any field the
// file omits keeps its documented default. It returns an error if path
// does not exist or fails validation.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %q not found", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	// TGO_TOKEN/TGO_PROXY override the file the way teloxide's own
	// TELOXIDE_TOKEN/TELOXIDE_PROXY env vars do (spec.md §6), letting a
	// deployment inject secrets without writing them to config.json.
	if tok := os.Getenv("TGO_TOKEN"); tok != "" {
		cfg.Token = tok
	}
	if proxy := os.Getenv("TGO_PROXY"); proxy != "" {
		cfg.Proxy = proxy
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
