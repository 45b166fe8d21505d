package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays PLUME_* environment variables onto cfg.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
