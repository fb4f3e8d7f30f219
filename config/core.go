// Package config implements configuration for the bfind executable using
// https://github.com/spf13/viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Contains all the keys for bfind's config
const (
	ColorKey    = "color"
	StrategyKey = "strategy"
	DebugKey    = "debug"
)

const defaultFileName = ".bfind"

// Load initializes the config package. It loads bfind's defaults and
// sets up viper. A missing config file is not an error.
func Load() error {
	viper.SetDefault(ColorKey, "auto")
	viper.SetDefault(StrategyKey, "bfs")
	viper.SetDefault(DebugKey, false)

	// Tell viper that the config. can be read from BFIND_<entry>
	// environment variables
	viper.SetEnvPrefix("BFIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	viper.SetConfigName(defaultFileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(homeDir)
	if err := viper.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing {
			if !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

// DefaultFile returns the path of the config file bfind reads.
func DefaultFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, defaultFileName+".yaml")
}

// Color returns the configured color mode: auto, always, or never.
func Color() string {
	return viper.GetString(ColorKey)
}

// Strategy returns the configured default traversal strategy.
func Strategy() string {
	return viper.GetString(StrategyKey)
}

// Debug returns whether debug logging is on.
func Debug() bool {
	return viper.GetBool(DebugKey)
}
