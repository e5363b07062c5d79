// Package config loads the settings of the pdudecode tool from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvPrefix is the common prefix of all environment variables.
const EnvPrefix = "PDU_"

type Config struct {
	// WBXMLURL is the endpoint of the WBXML decoding service. Empty disables WBXML decoding.
	WBXMLURL     string        `env:"WBXML_URL"     envDefault:""`
	WBXMLTimeout time.Duration `env:"WBXML_TIMEOUT" envDefault:"1s"`
	// ModemPort is the serial port of the GSM modem. Empty means auto-detect.
	ModemPort string `env:"MODEM_PORT" envDefault:""`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	Trace     bool   `env:"TRACE"      envDefault:"false"`
}

// Load reads the given .env files and parses the environment into a Config. All given files must exist.
// Without files, .env in the working directory is loaded if it exists.
func Load(envFiles ...string) (Config, error) {
	err := godotenv.Load(envFiles...)
	implicit := len(envFiles) == 0
	if err != nil && !(implicit && errors.Is(err, fs.ErrNotExist)) {
		return Config{}, fmt.Errorf("cannot load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("cannot parse configuration: %w", err)
	}
	if cfg.WBXMLTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid %sWBXML_TIMEOUT %v: must be positive", EnvPrefix, cfg.WBXMLTimeout)
	}
	return cfg, nil
}

// NewLogger creates a logger that writes text to stderr with the configured level.
// With Trace enabled, the level is lowered to trace so the AT communication is visible.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid %sLOG_LEVEL: %w", EnvPrefix, err)
	}
	if c.Trace {
		level = logrus.TraceLevel
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return logger, nil
}
