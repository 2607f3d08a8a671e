package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/flagx"
	"github.com/crewdesk/crewdesk-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify timeouts either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	DatabasePath   string         `json:"database_path"`
	RefreshTimeout timex.Duration `json:"refresh_timeout"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values loaded from a JSON file located via the
// -c/-config flags. If no file is given, nothing happens. Read or unmarshal
// errors panic; intended usage is defaults -> parseJson -> parseFlags, where
// later stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RefreshTimeout.Duration != 0 {
		cfg.RefreshTimeout = time.Duration(jc.RefreshTimeout.Duration)
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
