package models

import (
	"io/ioutil"
	"os"
	"os/user"
	"path"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configDir  = ".hexcorn"
	configFile = "config.yml"

	DefaultTBCacheSize = 1024
)

type Config struct {
	// suppress dumps that repeat the previous dump's PC
	DebugCompat bool `yaml:"debug-compat"`
	// subtracted from stack addresses in register dumps
	DebugStackRebaseOffset uint64 `yaml:"debug-stack-rebase-offset"`

	TBCacheSize int  `yaml:"tb-cache-size"`
	TraceCPU    bool `yaml:"trace-cpu"`
	Color       bool `yaml:"color"`
	Verbose     bool `yaml:"verbose"`
	// supervisor mode is not implemented; setting this makes core construction fail
	SystemMode bool `yaml:"system-mode"`
}

func DefaultConfig() *Config {
	return &Config{TBCacheSize: DefaultTBCacheSize}
}

// ConfigFilePath returns the path of the per-user config file.
func ConfigFilePath() string {
	home := "."
	if usr, err := user.Current(); err == nil {
		home = usr.HomeDir
	}
	return path.Join(home, configDir, configFile)
}

// LoadConfig reads a YAML config over the defaults.
// An empty filename reads the per-user file, which is allowed to be missing.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig()
	explicit := filename != ""
	if !explicit {
		filename = ConfigFilePath()
	}
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filename)
	}
	if c.TBCacheSize <= 0 {
		return nil, errors.Errorf("%s: tb-cache-size must be positive, got %d", filename, c.TBCacheSize)
	}
	return c, nil
}
