package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"homegame-server/internal/util"
)

// Config provides configuration for the home game server
type Config struct {
	loaded bool
	Log    struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Table struct {
		DefaultBuyIn          int `yaml:"defaultBuyIn" envconfig:"default_buy_in"`
		DefaultBigBlind       int `yaml:"defaultBigBlind" envconfig:"default_big_blind"`
		DefaultIncrement      int `yaml:"defaultIncrement" envconfig:"default_increment"`
		TimeoutInSeconds      int `yaml:"timeoutInSeconds" envconfig:"timeout_in_seconds"`
		RebuyWindowSeconds    int `yaml:"rebuyWindowSeconds" envconfig:"rebuy_window_seconds"`
		BlindDoublingInterval int `yaml:"blindDoublingInterval" envconfig:"blind_doubling_interval"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is not an
// error; environment variables alone can configure the server.
func Load() error {
	config = defaults()

	configFile := util.Getenv("HG_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("hg", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

func defaults() Config {
	var c Config
	c.Table.DefaultBuyIn = 10000
	c.Table.DefaultBigBlind = 100
	c.Table.DefaultIncrement = 25
	c.Table.TimeoutInSeconds = 45
	c.Table.RebuyWindowSeconds = 120

	return c
}
