// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sota-agent CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sota-agent/internal/secrets"
	"github.com/pdiddy/sota-agent/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the sota-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "sota-agent",
	Short: "Build SOTA leaderboards from arXiv LaTeX sources",
	Long: `sota-agent automates state-of-the-art leaderboard construction. It scans an
arXiv metadata snapshot for candidate papers, downloads and parses their LaTeX
sources, extracts benchmark claims with an LLM, and renders ranked reports.

Each pipeline stage is a subcommand: scan, acquire, analyze, and leaderboard.
The run subcommand executes the whole pipeline end to end.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sota-agent.yaml or ~/.config/sota-agent/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sota-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sota-agent"))
		}
	}

	viper.SetEnvPrefix("SOTA_AGENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadPipelineConfig overlays the discovered config file on the documented
// defaults and resolves the AI API key from secrets or the environment.
func loadPipelineConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if cfg.Analysis.APIKey == "" {
		if key, ok := loadedSecrets["gemini-api-key"]; ok {
			cfg.Analysis.APIKey = key
		} else {
			// SOTA_AGENT_API_KEY via viper's automatic env binding.
			cfg.Analysis.APIKey = viper.GetString("api_key")
		}
	}

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
