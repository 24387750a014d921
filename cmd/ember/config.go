package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var appFs = afero.NewOsFs()

// Config holds CLI configuration resolved from flags, config files and
// the environment.
type Config struct {
	DatabasePath string
	Debug        bool
}

// loadConfig resolves configuration: .ember.yaml in the working
// directory or the user's home, EMBER_* environment variables, and a
// local .env file when present. Flags override everything.
func loadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".ember")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "ember"))

	viper.SetEnvPrefix("EMBER")
	viper.AutomaticEnv()

	viper.SetDefault("database_path", "ember.db")
	viper.SetDefault("debug", false)

	// Missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()

	if _, err := appFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := appFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return &Config{
		DatabasePath: viper.GetString("database_path"),
		Debug:        viper.GetBool("debug"),
	}, nil
}
