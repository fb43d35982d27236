package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cobuy/pkg/errors"
	"github.com/matzehuels/cobuy/pkg/pipeline"
	"github.com/matzehuels/cobuy/pkg/server"
	"github.com/matzehuels/cobuy/pkg/session"
)

// Cache backends selectable in the config file.
const (
	backendNone  = "none"
	backendFile  = "file"
	backendRedis = "redis"
)

// Config is the on-disk configuration, read from config.toml.
// Command-line flags override these values.
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
	Server   ServerConfig   `toml:"server"`
}

// AnalysisConfig controls tree extraction defaults.
type AnalysisConfig struct {
	MaxDepth int `toml:"max_depth" validate:"gte=1,lte=12"`
}

// CacheConfig selects where derived results are cached.
type CacheConfig struct {
	Backend string `toml:"backend" validate:"oneof=none file redis"`
	// Dir overrides the file cache directory. Empty uses the XDG cache dir.
	Dir string `toml:"dir,omitempty"`
}

// RedisConfig is used when the cache backend is "redis".
type RedisConfig struct {
	Addr     string `toml:"addr" validate:"omitempty,hostname_port"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db" validate:"gte=0,lte=15"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures "cobuy serve".
type ServerConfig struct {
	Addr        string   `toml:"addr" validate:"required,hostname_port"`
	CORSOrigins []string `toml:"cors_origins" validate:"dive,eq=*|url"`
	SessionTTL  duration `toml:"session_ttl"`
	MaxBodyMB   int      `toml:"max_body_mb" validate:"gte=1,lte=1024"`
}

// duration is a time.Duration that reads and writes TOML strings like "2h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{MaxDepth: pipeline.DefaultMaxDepth},
		Cache:    CacheConfig{Backend: backendFile},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
		Server: ServerConfig{
			Addr:       server.DefaultAddr,
			SessionTTL: duration{session.DefaultTTL},
			MaxBodyMB:  server.DefaultMaxBodyBytes >> 20,
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	if c.Cache.Backend == backendRedis && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis.addr is required when cache.backend is redis")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !stderrors.As(err, &verrs) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, formatFieldError(fe))
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "hostname_port":
		return field + " must be host:port"
	case "url":
		return field + " must be a URL"
	case "eq=*|url":
		return field + ` must be a URL or "*"`
	default:
		return field + " is invalid"
	}
}

// configPath returns $XDG_CONFIG_HOME/cobuy/config.toml, falling back to
// ~/.config.
func configPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// loadConfig reads path on top of the defaults. A missing file is not an
// error; an unreadable or invalid one is.
func loadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// encode renders cfg as TOML.
func (c *Config) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeConfig writes cfg to path, refusing to replace an existing file
// unless force is set.
func writeConfig(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := cfg.encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// configCommand creates the "config" command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configFile)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.cfg.encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeConfig(c.configFile, DefaultConfig(), force); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %s", c.configFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
