package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultNames are tried in order by LoadDefault.
var DefaultNames = []string{"config.yaml", "config.yml", "config.toml"}

// Config is the on-disk piperun configuration.
type Config struct {
	Git   GitConfig   `yaml:"git" toml:"git"`
	Log   LogConfig   `yaml:"log" toml:"log"`
	Run   RunConfig   `yaml:"run" toml:"run"`
	Serve ServeConfig `yaml:"serve" toml:"serve"`

	// Path is the file the config was read from, "" for defaults.
	Path string `yaml:"-" toml:"-"`
}

// GitConfig configures the git wrappers.
type GitConfig struct {
	Binary string `yaml:"binary" toml:"binary" validate:"required"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" toml:"format" validate:"omitempty,oneof=console json"`
}

// RunConfig holds defaults for executed commands.
type RunConfig struct {
	// Timeout is a Go duration string such as "30s". Empty means none.
	Timeout string `yaml:"timeout" toml:"timeout" validate:"omitempty,duration"`
}

// ServeConfig configures the MCP server.
type ServeConfig struct {
	// Allow lists glob patterns matched against the space-joined argv of
	// commands the run tool may execute.
	Allow       []string `yaml:"allow" toml:"allow" validate:"dive,required"`
	MetricsAddr string   `yaml:"metrics_addr" toml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Git: GitConfig{Binary: "git"},
		Log: LogConfig{Level: "warn"},
	}
}

// RunTimeout parses Run.Timeout. Zero means no timeout.
func (c *Config) RunTimeout() time.Duration {
	if c.Run.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Run.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Load reads the file at path on top of Default. The format follows the
// extension: .yaml/.yml or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadDefault loads the first of DefaultNames found in Dir. Without one it
// returns Default.
func LoadDefault() (*Config, error) {
	dir := Dir()
	if dir == "" {
		return Default(), nil
	}
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("checking config %s: %w", path, err)
		}
		return Load(path)
	}
	return Default(), nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their file keys.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d >= 0
	})
}

// Validate checks field values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldPath(fe)+": "+describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// fieldPath turns "Config.serve.metrics_addr" into "serve.metrics_addr".
func fieldPath(fe validator.FieldError) string {
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "duration":
		return "must be a non-negative duration such as 30s"
	case "hostname_port":
		return "must be host:port"
	default:
		return "failed " + fe.Tag()
	}
}
