// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-assistant CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jordansp99/academic-research-assistant/internal/secrets"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the research-assistant CLI.
var rootCmd = &cobra.Command{
	Use:   "research-assistant",
	Short: "Multi-source academic literature search",
	Long: `research-assistant searches academic sources (arXiv, PubMed, Semantic
Scholar, general web) in parallel, enriches incomplete results with PubMed
records or an AI extraction pass, deduplicates across sources, and saves
the selected papers to a research digest.

Each surface is a subcommand: search runs a query across the enabled
sources, library lists previously saved digests.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-assistant.yaml or ~/.config/research-assistant/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-assistant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-assistant"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_ASSISTANT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger. Debug level with --verbose, warnings
// and errors only otherwise; progress text goes to stdout separately.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// loadConfig assembles the effective configuration from defaults, the
// config file, and loaded secrets.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	if v := viper.GetString("search.user_agent"); v != "" {
		cfg.Search.UserAgent = v
		cfg.Enrich.UserAgent = v
	}
	if v := viper.GetDuration("search.timeout"); v > 0 {
		cfg.Search.Timeout = v
		cfg.Enrich.Timeout = v
	}
	if v := viper.GetString("enrich.model"); v != "" {
		cfg.Enrich.Model = v
	}
	if v := viper.GetInt("enrich.max_attempts"); v > 0 {
		cfg.Enrich.MaxAttempts = v
	}
	if v := viper.GetDuration("enrich.scrape_delay"); v > 0 {
		cfg.Enrich.ScrapeDelay = v
	}
	if v := viper.GetString("storage.output_path"); v != "" {
		cfg.Storage.OutputPath = v
	}
	if v := viper.GetString("storage.library_dir"); v != "" {
		cfg.Storage.LibraryDir = v
	}

	cfg.Search.SemanticScholarAPIKey = secretDefault(secrets.KeySemanticScholar, viper.GetString("search.semantic_scholar_api_key"))
	cfg.Enrich.APIKey = secretDefault(secrets.KeyGemini, viper.GetString("enrich.api_key"))

	return cfg
}

// durationOrDefault guards flag-supplied durations.
func durationOrDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
