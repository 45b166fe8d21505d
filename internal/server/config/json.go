package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/plume/internal/flagx"
	"github.com/dmitrijs2005/plume/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrMetrics         string         `json:"endpoint_addr_metrics"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	MaxFailedLogins             int            `json:"max_failed_logins"`
	AdminEmails                 []string       `json:"admin_emails"`
	RepositoryTimeout           timex.Duration `json:"repository_timeout"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	PresignExpiry               timex.Duration `json:"presign_expiry"`
	LoreCatalogPath             string         `json:"lore_catalog_path"`
	Symbol                      jsonSymbol     `json:"symbol"`
}

type jsonSymbol struct {
	BronzeWeight int `json:"bronze_weight"`
	SilverWeight int `json:"silver_weight"`
	GoldWeight   int `json:"gold_weight"`
	Vortex       int `json:"vortex"`
	Horizon      int `json:"horizon"`
	Halo         int `json:"halo"`
}

// parseJson loads configuration values from the JSON file named by -c/-config
// (or $PLUME_CONFIG). Keys absent from the file keep their current value.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFilePath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.EndpointAddrMetrics = c.EndpointAddrMetrics
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.MaxFailedLogins = c.MaxFailedLogins
	config.AdminEmails = c.AdminEmails
	config.RepositoryTimeout = c.RepositoryTimeout.Duration
	config.LogLevel = c.LogLevel
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PresignExpiry = c.PresignExpiry.Duration
	config.LoreCatalogPath = c.LoreCatalogPath
	config.SymbolBronzeWeight = c.Symbol.BronzeWeight
	config.SymbolSilverWeight = c.Symbol.SilverWeight
	config.SymbolGoldWeight = c.Symbol.GoldWeight
	config.SymbolVortexThreshold = c.Symbol.Vortex
	config.SymbolHorizonThreshold = c.Symbol.Horizon
	config.SymbolHaloThreshold = c.Symbol.Halo
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrGRPC:            c.EndpointAddrGRPC,
		EndpointAddrMetrics:         c.EndpointAddrMetrics,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		MaxFailedLogins:             c.MaxFailedLogins,
		AdminEmails:                 c.AdminEmails,
		RepositoryTimeout:           timex.Duration{Duration: c.RepositoryTimeout},
		LogLevel:                    c.LogLevel,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		PresignExpiry:               timex.Duration{Duration: c.PresignExpiry},
		LoreCatalogPath:             c.LoreCatalogPath,
		Symbol: jsonSymbol{
			BronzeWeight: c.SymbolBronzeWeight,
			SilverWeight: c.SymbolSilverWeight,
			GoldWeight:   c.SymbolGoldWeight,
			Vortex:       c.SymbolVortexThreshold,
			Horizon:      c.SymbolHorizonThreshold,
			Halo:         c.SymbolHaloThreshold,
		},
	}
}
