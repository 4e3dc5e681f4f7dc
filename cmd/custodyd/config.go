package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// configFile is looked up in the home directory unless a path is given.
const configFile = "custodyd.toml"

// Config is the content of the custodyd.toml file.
type Config struct {
	// Home is the directory holding the ledger data. It defaults to the
	// directory of the configuration file.
	Home string `toml:"home"`
	// ChainID if set must match the chain id of the ledger.
	ChainID string `toml:"chain_id"`
	// KeyFile is the private key used to sign transactions.
	KeyFile string    `toml:"key_file"`
	Log     LogConfig `toml:"log"`
}

// LogConfig configures the ledger logger. Without a file, logs are written
// to the standard error output.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) Config {
	return Config{
		Home:    home,
		KeyFile: filepath.Join(home, "key.priv"),
		Log: LogConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// LoadConfig reads the configuration file into conf. A missing file leaves
// conf unchanged.
func LoadConfig(path string, conf *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "config file %q: %s", path, err)
	}
	return nil
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	if c.Home == "" {
		errs = errors.AppendField(errs, "Home", errors.ErrEmpty)
	}
	if c.ChainID != "" && !custody.IsValidChainID(c.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.ErrInput)
	}
	if c.KeyFile == "" {
		errs = errors.AppendField(errs, "KeyFile", errors.ErrEmpty)
	}
	switch c.Log.Level {
	case "debug", "info", "error", "none":
	default:
		errs = errors.AppendField(errs, "Log.Level", errors.ErrInput)
	}
	return errs
}

// Save writes the configuration file.
func (c Config) Save(path string) error {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "create config file: %s", err)
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(c); err != nil {
		return errors.Wrap(errors.ErrInternal, err.Error())
	}
	return fd.Close()
}
