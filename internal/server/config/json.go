package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hopitalsej/sejour/internal/flagx"
	"github.com/hopitalsej/sejour/internal/timex"
)

// JsonConfig is the DTO for reading JSON configuration files. Duration
// fields accept both strings such as "30m" and integer nanoseconds; after
// unmarshalling they are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	MaxDBConns            int            `json:"max_db_conns"`
	ReadTimeout           timex.Duration `json:"read_timeout"`
	WriteTimeout          timex.Duration `json:"write_timeout"`
	IdleTimeout           timex.Duration `json:"idle_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config, when
// given. Unset fields keep their current values. Unreadable or invalid
// files panic: a config file that was asked for but cannot be used is a
// startup error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.MaxDBConns != 0 {
		config.MaxDBConns = c.MaxDBConns
	}
	if c.ReadTimeout.Duration != 0 {
		config.ReadTimeout = time.Duration(c.ReadTimeout.Duration)
	}
	if c.WriteTimeout.Duration != 0 {
		config.WriteTimeout = time.Duration(c.WriteTimeout.Duration)
	}
	if c.IdleTimeout.Duration != 0 {
		config.IdleTimeout = time.Duration(c.IdleTimeout.Duration)
	}
}
