// Package config loads runtime settings from the environment with sane
// defaults.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the pipeline's tunables.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `env:"SUBSCOUT_DB" env-default:"subscout.db"`
	// MaxUploadSize rejects subtitle files above this many bytes.
	MaxUploadSize int64 `env:"SUBSCOUT_MAX_UPLOAD_SIZE" env-default:"10485760"`
	// MinTokenLength drops shorter English tokens (pronouns exempt).
	MinTokenLength int `env:"SUBSCOUT_MIN_TOKEN_LENGTH" env-default:"2"`
	// TopWordsLimit caps the highlighted words reported at finalize.
	TopWordsLimit int `env:"SUBSCOUT_TOP_WORDS" env-default:"20"`
	// Workers bounds concurrent line tokenization during processing.
	Workers int `env:"SUBSCOUT_WORKERS" env-default:"4"`
	// SessionExpiry is the age after which unfinished sessions may be pruned.
	SessionExpiry time.Duration `env:"SUBSCOUT_SESSION_EXPIRY" env-default:"24h"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
