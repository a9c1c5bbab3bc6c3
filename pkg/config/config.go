package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/weberc2/xcheck/pkg/logger"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "XCHECK"
	appName      = "xcheck"

	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings that may come from a config file or the
// environment. Command-line flags take precedence over both.
type Config struct {
	LogLevel  string `split_words:"true" yaml:"logLevel"`
	LogFormat string `split_words:"true" yaml:"logFormat"`
	ReportAll bool   `split_words:"true" yaml:"reportAll"`
	Format    string `split_words:"true" yaml:"format"`
	Mmap      bool   `split_words:"true" yaml:"mmap"`
	S3Region  string `split_words:"true" yaml:"s3Region"`
}

func Default() Config {
	return Config{
		LogLevel:  logger.LevelOff,
		LogFormat: logger.FormatText,
		Format:    FormatText,
	}
}

// Load reads the file named by `XCHECK_CONFIG_FILE` (by default
// `~/.config/xcheck.yaml`) if it exists, then applies `XCHECK_*`
// environment variables on top.
func Load() (*Config, error) {
	configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE")
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configFile = filepath.Join(home, ".config", appName+".yaml")
		}
	}
	return LoadFile(configFile)
}

// LoadFile is `Load` with an explicit config file path. A missing file is
// not an error.
func LoadFile(configFile string) (*Config, error) {
	c := Default()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if y, e, v := func() (string, string, string) {
		if !oneOf(c.LogLevel, logger.Levels) {
			return "logLevel", "LOG_LEVEL", c.LogLevel
		}
		if !oneOf(c.LogFormat, logger.Formats) {
			return "logFormat", "LOG_FORMAT", c.LogFormat
		}
		if !oneOf(c.Format, []string{FormatText, FormatJSON}) {
			return "format", "FORMAT", c.Format
		}
		return "", "", ""
	}(); y != "" {
		return fmt.Errorf(
			"invalid configuration: %s / %s_%s: unsupported value `%s`",
			y,
			envVarPrefix,
			e,
			v,
		)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
