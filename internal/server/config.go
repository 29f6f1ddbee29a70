package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/pkg/constants"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxBodySize   string               `yaml:"maxBodySize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	Auth          AuthConfig           `yaml:"auth"`
	bodySizeBytes int64
}

// AuthConfig defines the login gate. When disabled, the API is open; the
// engine itself never sees identity either way.
type AuthConfig struct {
	Enabled   bool         `yaml:"enabled"`
	JWTSecret string       `yaml:"jwtSecret"`
	TokenTTL  string       `yaml:"tokenTTL"`
	Users     []UserConfig `yaml:"users"`
	tokenTTL  time.Duration
}

// UserConfig is one permitted client login. Passwords are stored only as
// bcrypt hashes.
type UserConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// LoadConfig loads the server configuration from YAML. If the file does not
// exist, defaults are returned without error (auth disabled).
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodyBytes),
		bodySizeBytes: constants.DefaultMaxBodyBytes,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	if c.bodySizeBytes <= 0 {
		return constants.DefaultMaxBodyBytes
	}
	return c.bodySizeBytes
}

// TTL returns the configured session token lifetime.
func (a *AuthConfig) TTL() time.Duration {
	if a.tokenTTL <= 0 {
		d, _ := time.ParseDuration(constants.DefaultTokenTTL)
		return d
	}
	return a.tokenTTL
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodyBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodyBytes)
	} else {
		bytes, err := ParseSize(sizeStr)
		if err != nil {
			return err
		}
		if bytes <= 0 {
			bytes = constants.DefaultMaxBodyBytes
		}
		c.bodySizeBytes = bytes
	}

	return c.Auth.normalize()
}

func (a *AuthConfig) normalize() error {
	if !a.Enabled {
		return nil
	}

	if strings.TrimSpace(a.JWTSecret) == "" {
		return fmt.Errorf("auth is enabled but jwtSecret is empty")
	}
	if len(a.Users) == 0 {
		return fmt.Errorf("auth is enabled but no users are configured")
	}
	for _, user := range a.Users {
		if user.Username == "" || user.PasswordHash == "" {
			return fmt.Errorf("auth user entries require username and passwordHash")
		}
	}

	ttl := strings.TrimSpace(a.TokenTTL)
	if ttl == "" {
		ttl = constants.DefaultTokenTTL
	}
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid tokenTTL %q: %w", a.TokenTTL, err)
	}
	if parsed <= 0 {
		return fmt.Errorf("tokenTTL must be positive, got %q", a.TokenTTL)
	}
	a.tokenTTL = parsed
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodyBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
