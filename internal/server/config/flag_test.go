package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-m", ":9191", "-d", "db", "-s", "secret",
			"-t", "2", "-f", "7", "-l", "debug", "-u", "user", "-p", "password",
			"-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-lore", "lore.yaml",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC:            "127.0.0.1:9090",
				EndpointAddrMetrics:         ":9191",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 2 * time.Minute,
				MaxFailedLogins:             7,
				LogLevel:                    "debug",
				S3RootUser:                  "user",
				S3RootPassword:              "password",
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
				LoreCatalogPath:             "lore.yaml",
			}},
		{name: "bad int", args: []string{"cmd", "-f", "lots"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
