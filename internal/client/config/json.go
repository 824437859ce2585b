package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hopitalsej/sejour/internal/flagx"
	"github.com/hopitalsej/sejour/internal/timex"
)

// JsonConfig is the DTO for reading the client JSON configuration file.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	RememberMe          *bool          `json:"remember_me"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays values from the JSON file named by -c/-config, when
// given. Unset fields keep their current values.
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

	if c.ServerEndpointAddr != "" {
		config.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RememberMe != nil {
		config.RememberMe = *c.RememberMe
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
	if c.OnlineCheckInterval.Duration != 0 {
		config.OnlineCheckInterval = time.Duration(c.OnlineCheckInterval.Duration)
	}
}
