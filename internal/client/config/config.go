package config

import "time"

// Config holds runtime settings for the Plume CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - RequestTimeout: upper bound for one command's round trip, retries included.
//   - RetryAttempts / RetryBaseDelay: retries of calls that failed with a transient error.
//   - DataDir: directory holding the local session database.
type Config struct {
	ServerEndpointAddr string        `env:"PLUME_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"PLUME_REQUEST_TIMEOUT"`
	RetryAttempts      uint64        `env:"PLUME_RETRY_ATTEMPTS"`
	RetryBaseDelay     time.Duration `env:"PLUME_RETRY_DELAY"`
	DataDir            string        `env:"PLUME_DATA_DIR"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.RetryAttempts = 3
	c.RetryBaseDelay = 200 * time.Millisecond
	c.DataDir = ".plume"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the JSON file at path (if any) and the environment. Command-line flags are
// bound on top of the result by the CLI.
func LoadConfig(path string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, path)
	parseEnv(cfg)
	return cfg
}
