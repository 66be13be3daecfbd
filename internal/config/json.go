package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/votofacil/votofacil/internal/flagx"
	"github.com/votofacil/votofacil/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ProjectID           string         `json:"project_id"`
	CredentialsFile     string         `json:"credentials_file"`
	WebAPIKey           string         `json:"web_api_key"`
	StorageBucket       string         `json:"storage_bucket"`
	LocalDBPath         string         `json:"local_db_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	OnlineCheckTimeout  timex.Duration `json:"online_check_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// when neither is set, no JSON is loaded. Read or unmarshal errors panic,
// matching the fail-fast behavior of the flag stage. Only non-zero JSON
// fields overwrite the defaults.
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

	if jc.ProjectID != "" {
		cfg.ProjectID = jc.ProjectID
	}
	if jc.CredentialsFile != "" {
		cfg.CredentialsFile = jc.CredentialsFile
	}
	if jc.WebAPIKey != "" {
		cfg.WebAPIKey = jc.WebAPIKey
	}
	if jc.StorageBucket != "" {
		cfg.StorageBucket = jc.StorageBucket
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.OnlineCheckTimeout.Duration != 0 {
		cfg.OnlineCheckTimeout = time.Duration(jc.OnlineCheckTimeout.Duration)
	}
}
