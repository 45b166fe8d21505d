package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays PLUME_* environment variables. Unset variables leave the
// current value in place; malformed values panic like the other sources do.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
