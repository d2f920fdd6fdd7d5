package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration, loaded from configs/config.yaml
// with environment variable overrides.
type Config struct {
	ServerAddress    string        `mapstructure:"server_address"`
	StorageDriver    string        `mapstructure:"storage_driver"`
	BadgerDir        string        `mapstructure:"badger_dir"`
	DBSource         string        `mapstructure:"db_source"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	AggregateRetries int           `mapstructure:"aggregate_retries"`
	Timezone         string        `mapstructure:"timezone"`
}

// LoadConfig reads configuration from the given directory and the
// environment. Missing file keys fall back to defaults; a missing file is
// fine as long as the defaults or environment cover everything.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server_address", ":8080")
	viper.SetDefault("storage_driver", "badger")
	viper.SetDefault("badger_dir", "./data/badger")
	viper.SetDefault("db_source", "")
	viper.SetDefault("request_timeout", 5*time.Second)
	viper.SetDefault("aggregate_retries", 5)
	viper.SetDefault("timezone", "UTC")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
