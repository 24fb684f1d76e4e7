package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Audio      AudioConfig      `yaml:"audio"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
}

// DictionaryConfig holds settings for the Free Dictionary API client.
type DictionaryConfig struct {
	BaseURL       string        `yaml:"base_url"        env:"DICT_BASE_URL"        env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout       time.Duration `yaml:"timeout"         env:"DICT_TIMEOUT"         env-default:"10s"`
	MaxAudioBytes int64         `yaml:"max_audio_bytes" env:"DICT_MAX_AUDIO_BYTES" env-default:"10485760"`
	UserAgent     string        `yaml:"user_agent"      env:"DICT_USER_AGENT"      env-default:"wordbuddy"`
}

// Audio player kinds.
const (
	PlayerSilent  = "silent"
	PlayerCommand = "command"
)

// AudioConfig holds pronunciation playback settings.
type AudioConfig struct {
	Enabled bool   `yaml:"enabled" env:"AUDIO_ENABLED" env-default:"true"`
	Player  string `yaml:"player"  env:"AUDIO_PLAYER"  env-default:"silent"`
	// Command is split on spaces; the MP3 bytes are written to its stdin.
	Command string `yaml:"command" env:"AUDIO_COMMAND" env-default:"mpg123 -q -"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// CORSOrigins is a comma-separated origin list; "*" allows any origin.
	CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS" env-default:"*"`
	// LookupsPerMinute limits lookup requests per client address; 0 disables the limit.
	LookupsPerMinute int `yaml:"lookups_per_minute" env:"SERVER_LOOKUPS_PER_MINUTE" env-default:"30"`
}

// DatabaseConfig holds PostgreSQL settings for the lookup journal.
// An empty DSN disables the journal.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Enabled reports whether a journal database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
