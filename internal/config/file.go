package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort       string   `toml:"server_port"`
	OllamaURL        string   `toml:"ollama_url"`
	AccessCodes      []string `toml:"access_codes"`
	HideUserAPIKey   *bool    `toml:"hide_user_api_key"`
	JWTSecret        string   `toml:"jwt_secret"`
	UpstreamProxy    string   `toml:"upstream_proxy"`
	EnableMetrics    *bool    `toml:"enable_metrics"`
	EnableRequestLog *bool    `toml:"enable_request_log"`
	LogRetentionDays *int     `toml:"log_retention_days"`
	LogPruneSchedule string   `toml:"log_prune_schedule"`
	RateLimit        *int     `toml:"rate_limit"`
	LogLevel         string   `toml:"log_level"`
	LogFormat        string   `toml:"log_format"`
}

// ConfigPath returns the path to the config file (~/.llamarelay/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return LoadFileFrom(ConfigPath())
}

// LoadFileFrom loads configuration from the TOML file at path.
func LoadFileFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# llamarelay configuration
# server_port = ":8080"

# Upstream inference server (default http://localhost:11434).
# A value without a scheme is treated as https.
# ollama_url = "http://gpu-box.lan:11434"

# Route upstream traffic through a proxy (http, https or socks5)
# upstream_proxy = "socks5://127.0.0.1:1080"

# Access codes are argon2id hashes and are reloaded when this file changes. Generate one with:
#   ACCESS_CODE=my-code llamarelay   (plaintext codes from env are hashed at startup)
# access_codes = ["$argon2id$v=19$m=65536,t=1,p=4$...$..."]

# Reject clients that send their own API key instead of an access code
# hide_user_api_key = false

# Accept HS256 bearer tokens signed with this secret
# jwt_secret = ""

# Requests per minute per client credential, 0 = unlimited
# rate_limit = 0

# enable_metrics = true
# enable_request_log = true
# log_retention_days = 30
# log_prune_schedule = "0 3 * * *"
# log_level = "info"
# log_format = "text"
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
