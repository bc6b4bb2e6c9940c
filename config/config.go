// Package config loads, validates and generates the process-filter
// configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"procstop/match"

	"github.com/spf13/viper"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "procstop_config"

// ErrNotFound is returned when the config file does not exist
var ErrNotFound = errors.New("config file not found")

// Config is the process-filter configuration.
// The on-disk key for the name list is spelled "proccess_list".
type Config struct {
	Mode        string   `mapstructure:"mode" json:"mode"`
	ProcessList []string `mapstructure:"proccess_list" json:"proccess_list"`
}

// Defaults returns the configuration written by "config generate"
func Defaults() Config {
	return Config{
		Mode:        match.Blacklist.String(),
		ProcessList: []string{},
	}
}

// Normalize lower-cases and trims every name fragment
func (c Config) Normalize() Config {
	out := Config{
		Mode:        strings.ToLower(strings.TrimSpace(c.Mode)),
		ProcessList: make([]string, 0, len(c.ProcessList)),
	}
	for _, name := range c.ProcessList {
		out.ProcessList = append(out.ProcessList, strings.ToLower(strings.TrimSpace(name)))
	}
	return out
}

// Validate checks the mode and rejects empty fragments, which would match
// every process.
func (c Config) Validate() error {
	if _, err := match.ParseMode(c.Mode); err != nil {
		return err
	}
	for i, name := range c.ProcessList {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("proccess_list[%d]: empty name", i)
		}
	}
	return nil
}

// Policy converts the configuration into a match policy
func (c Config) Policy() (match.Policy, error) {
	mode, err := match.ParseMode(c.Mode)
	if err != nil {
		return match.Policy{}, err
	}
	names := make([]string, len(c.ProcessList))
	copy(names, c.ProcessList)
	return match.Policy{Mode: mode, Names: names}, nil
}

// Path picks the config file: the explicit path if set, then the
// procstop_config environment variable, then the user config directory.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "procstop", "config.json")
	}
	return "procstop.json"
}

type loadResult struct {
	cfg Config
	err error
}

// Load reads and validates the config file at path. Parsing runs on its
// own goroutine and the single result comes back over a one-shot channel,
// so very large input never grows the caller's stack.
func Load(path string) (Config, error) {
	done := make(chan loadResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- loadResult{err: fmt.Errorf("parse %s: %v", path, r)}
			}
		}()

		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			done <- loadResult{err: err}
			return
		}
		defer f.Close()

		cfg, err := Parse(f)
		if err != nil {
			err = fmt.Errorf("parse %s: %w", path, err)
		}
		done <- loadResult{cfg: cfg, err: err}
	}()

	res := <-done
	return res.cfg, res.err
}

// Parse reads a JSON config from r, normalizes and validates it
func Parse(r io.Reader) (Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("mode", match.Blacklist.String())
	v.SetDefault("proccess_list", []string{})

	if err := v.ReadConfig(r); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders the config as indented JSON
func Marshal(c Config) ([]byte, error) {
	if c.ProcessList == nil {
		c.ProcessList = []string{}
	}
	return json.MarshalIndent(c, "", "  ")
}

// Save writes the config to path, creating parent directories
func Save(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("mode", c.Mode)
	v.Set("proccess_list", c.ProcessList)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
