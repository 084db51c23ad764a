package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Defaults returns a Config pre-populated with reasonable values for
// pool sizing and retry backoff.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Address = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Store.Container = "solace-messages"
	cfg.Encryption.Timeout = Duration(5 * time.Second)
	cfg.Transformation.RetryBaseDelay = Duration(time.Second)
	cfg.Transformation.RetryFactor = 2
	cfg.Transformation.RetryCap = Duration(60 * time.Second)
	cfg.Transformation.RetryMaxAttempts = 3
	cfg.Transformation.DLQWarnThreshold = 10
	cfg.Transformation.DLQErrorThreshold = 50
	cfg.Pool.CoreSize = 50
	cfg.Pool.MaxSize = 200
	cfg.Pool.QueueCapacity = 1000
	cfg.Pool.MaxTaskBytes = SizeBytes(1 << 20)
	cfg.Security.RateLimit.RPS = 10
	cfg.Security.RateLimit.Burst = 20
	return cfg
}

// Load reads a YAML file into a Config seeded with Defaults. A missing file
// is not an error: the defaults plus environment overlay still apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ApplyEnvOverrides overlays BRIDGE_* environment variables onto cfg:
// env wins over file when set, silent no-op otherwise.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BRIDGE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("BRIDGE_SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}

	if v := os.Getenv("BRIDGE_BROKER_HOST"); v != "" {
		cfg.Broker.Host = v
	}
	if v := os.Getenv("BRIDGE_BROKER_VPN"); v != "" {
		cfg.Broker.VPN = v
	}
	if v := os.Getenv("BRIDGE_BROKER_USER"); v != "" {
		cfg.Broker.User = v
	}
	if v := os.Getenv("BRIDGE_BROKER_PASS"); v != "" {
		cfg.Broker.Pass = v
	}
	if v := os.Getenv("BRIDGE_BROKER_QUEUE"); v != "" {
		cfg.Broker.Queue = v
	}
	if v := os.Getenv("BRIDGE_BROKER_INPUT_QUEUE"); v != "" {
		cfg.Broker.InputQueue = v
	}
	if v := os.Getenv("BRIDGE_BROKER_OUTPUT_QUEUE"); v != "" {
		cfg.Broker.OutputQueue = v
	}
	if v := os.Getenv("BRIDGE_BROKER_DLQ_DESTINATION"); v != "" {
		cfg.Broker.DeadLetterDst = v
	}

	if v := os.Getenv("BRIDGE_STORE_CONNECTION_STRING"); v != "" {
		cfg.Store.ConnectionString = v
	}
	if v := os.Getenv("BRIDGE_STORE_CONTAINER"); v != "" {
		cfg.Store.Container = v
	}

	if v := os.Getenv("BRIDGE_ENCRYPTION_ENABLED"); v != "" {
		cfg.Encryption.Enabled = parseBool(v, cfg.Encryption.Enabled)
	}
	if v := os.Getenv("BRIDGE_ENCRYPTION_LOCAL"); v != "" {
		cfg.Encryption.Local = parseBool(v, cfg.Encryption.Local)
	}
	if v := os.Getenv("BRIDGE_ENCRYPTION_LOCAL_MASTER_KEY_HEX"); v != "" {
		cfg.Encryption.LocalMasterKeyHex = v
	}
	if v := os.Getenv("BRIDGE_ENCRYPTION_KEY_SERVICE_URI"); v != "" {
		cfg.Encryption.KeyServiceURI = v
	}
	if v := os.Getenv("BRIDGE_ENCRYPTION_KEY_NAME"); v != "" {
		cfg.Encryption.KeyName = v
	}

	if v := os.Getenv("BRIDGE_TRANSFORM_ENABLED"); v != "" {
		cfg.Transformation.Enabled = parseBool(v, cfg.Transformation.Enabled)
	}
	if v := os.Getenv("BRIDGE_TRANSFORM_INPUT_QUEUE"); v != "" {
		cfg.Transformation.InputQueue = v
	}
	if v := os.Getenv("BRIDGE_TRANSFORM_OUTPUT_QUEUE"); v != "" {
		cfg.Transformation.OutputQueue = v
	}
	if v := os.Getenv("BRIDGE_TRANSFORM_DEFAULT_TYPE"); v != "" {
		cfg.Transformation.DefaultType = v
	}
	if v := os.Getenv("BRIDGE_TRANSFORM_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Transformation.RetryMaxAttempts = n
		}
	}

	if v := os.Getenv("BRIDGE_POOL_CORE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.CoreSize = n
		}
	}
	if v := os.Getenv("BRIDGE_POOL_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.MaxSize = n
		}
	}
	if v := os.Getenv("BRIDGE_POOL_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.QueueCapacity = n
		}
	}

	if v := os.Getenv("BRIDGE_CORS_ORIGINS"); v != "" {
		cfg.Security.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("BRIDGE_IP_WHITELIST"); v != "" {
		cfg.Security.IPWhitelist = splitList(v)
	}
	if v := os.Getenv("BRIDGE_API_KEYS"); v != "" {
		cfg.Security.APIKeys = splitList(v)
	}
	if v := os.Getenv("BRIDGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

// LoadEffective loads the file at path (if any) and applies the
// environment overlay.
func LoadEffective(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	ApplyEnvOverrides(cfg)
	return cfg, nil
}
