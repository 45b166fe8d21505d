package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/plume/internal/flagx"
	"github.com/dmitrijs2005/plume/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	RetryAttempts      uint64         `json:"retry_attempts"`
	RetryBaseDelay     timex.Duration `json:"retry_base_delay"`
	DataDir            string         `json:"data_dir"`
}

// parseJson overlays Config with values loaded from the JSON file at path,
// falling back to $PLUME_CONFIG. Keys absent from the file keep their
// current value. Read or unmarshal errors panic.
func parseJson(cfg *Config, path string) {
	if path == "" {
		path = os.Getenv(flagx.ConfigEnvVar)
	}
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := &JsonConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		RequestTimeout:     timex.Duration{Duration: cfg.RequestTimeout},
		RetryAttempts:      cfg.RetryAttempts,
		RetryBaseDelay:     timex.Duration{Duration: cfg.RetryBaseDelay},
		DataDir:            cfg.DataDir,
	}
	if err := json.Unmarshal(data, jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.RetryAttempts = jc.RetryAttempts
	cfg.RetryBaseDelay = jc.RetryBaseDelay.Duration
	cfg.DataDir = jc.DataDir
}
