package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}
	if err := c.Audio.validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}
	if c.Server.LookupsPerMinute < 0 {
		return fmt.Errorf("server.lookups_per_minute must be >= 0 (got %d)", c.Server.LookupsPerMinute)
	}
	if c.Database.Enabled() && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	return nil
}

func (d *DictionaryConfig) validate() error {
	u, err := url.Parse(d.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http(s) (got %q)", d.BaseURL)
	}
	d.BaseURL = strings.TrimRight(d.BaseURL, "/")

	if d.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", d.Timeout)
	}
	if d.MaxAudioBytes <= 0 {
		return fmt.Errorf("max_audio_bytes must be > 0 (got %d)", d.MaxAudioBytes)
	}
	return nil
}

func (a *AudioConfig) validate() error {
	switch a.Player {
	case PlayerSilent:
	case PlayerCommand:
		if len(CommandArgs(a.Command)) == 0 {
			return fmt.Errorf("command is required for player %q", PlayerCommand)
		}
	default:
		return fmt.Errorf("player must be %q or %q (got %q)", PlayerSilent, PlayerCommand, a.Player)
	}
	return nil
}

// CommandArgs splits a player command line on whitespace.
func CommandArgs(raw string) []string {
	return strings.Fields(raw)
}
