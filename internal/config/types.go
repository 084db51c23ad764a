// Package config loads the bridge's configuration from an optional YAML
// file overlaid with environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration tree.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Security       SecurityConfig       `yaml:"security"`
	Logging        LoggingConfig        `yaml:"logging"`
	Broker         BrokerConfig         `yaml:"broker"`
	Store          StoreConfig          `yaml:"store"`
	Encryption     EncryptionConfig     `yaml:"encryption"`
	Transformation TransformationConfig `yaml:"transformation"`
	Pool           PoolConfig           `yaml:"pool"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// SecurityConfig holds the HTTP security middleware settings: CORS,
// rate limiting, IP whitelisting, and API key auth.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	IPWhitelist []string `yaml:"ip_whitelist"`
	APIKeys     []string `yaml:"api_keys"`
}

// LoggingConfig holds the slog level; sink is read directly from
// BRIDGE_LOG_SINK by internal/logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BrokerConfig configures the SMF/JMS-style broker gateway connection.
type BrokerConfig struct {
	Host          string `yaml:"host"`
	VPN           string `yaml:"vpn"`
	User          string `yaml:"user"`
	Pass          string `yaml:"pass"`
	Queue         string `yaml:"queue"`
	InputQueue    string `yaml:"input_queue"`
	OutputQueue   string `yaml:"output_queue"`
	DeadLetterDst string `yaml:"dead_letter_destination"`
}

// StoreConfig configures the durable object-store gateway.
type StoreConfig struct {
	ConnectionString string `yaml:"connection_string"`
	Container        string `yaml:"container"`
}

// EncryptionConfig configures envelope encryption: local-master-key mode
// vs. a remote Key-Vault-managed wrap/unwrap service.
type EncryptionConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Local         bool     `yaml:"local"`
	LocalMasterKeyHex string `yaml:"local_master_key_hex"`
	KeyServiceURI string   `yaml:"key_service_uri"`
	KeyName       string   `yaml:"key_name"`
	Timeout       Duration `yaml:"timeout"`
}

// TransformationConfig configures the SWIFT/ISO transformation pipeline.
type TransformationConfig struct {
	Enabled           bool     `yaml:"enabled"`
	InputQueue        string   `yaml:"input_queue"`
	OutputQueue       string   `yaml:"output_queue"`
	DefaultType       string   `yaml:"default_type"`
	RetryBaseDelay    Duration `yaml:"retry_base_delay"`
	RetryFactor       float64  `yaml:"retry_factor"`
	RetryCap          Duration `yaml:"retry_cap"`
	RetryMaxAttempts  int      `yaml:"retry_max_attempts"`
	DLQWarnThreshold  int      `yaml:"dlq_warn_threshold"`
	DLQErrorThreshold int      `yaml:"dlq_error_threshold"`
}

// PoolConfig sizes the async worker pool backing the store path.
type PoolConfig struct {
	CoreSize      int       `yaml:"core_size"`
	MaxSize       int       `yaml:"max_size"`
	QueueCapacity int       `yaml:"queue_capacity"`
	MaxTaskBytes  SizeBytes `yaml:"max_task_bytes"`
}

// SizeBytes is a byte count unmarshaled from human-friendly strings
// ("64MB") or plain integers.
type SizeBytes int64

func (s *SizeBytes) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*s = 0
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*s = 0
		return nil
	}
	if v, err := humanize.ParseBytes(raw); err == nil {
		*s = SizeBytes(v)
		return nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*s = SizeBytes(i)
		return nil
	}
	return fmt.Errorf("invalid size value: %q", node.Value)
}

func (s SizeBytes) Int64() int64 { return int64(s) }

// Duration wraps time.Duration for YAML, accepting "100ms" style strings
// or a bare number interpreted as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = Duration(0)
		return nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		*d = Duration(td)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(f * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }
