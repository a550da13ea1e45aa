package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/refrain/internal/logger"
	"github.com/ppiankov/refrain/internal/model"
)

const version = "refrain v0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "refrain",
	Short: "Refrain - phrase graphs for song lyrics",
	Long: `Refrain turns song text into a weighted phrase graph.

It splits every line into the phrases that repeat across the whole song,
preferring long refrains over single words, and counts how often each
phrase follows another.

Refrain counts; it does not interpret meaning.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Refrain.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.refrain/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".refrain"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match REFRAIN_*, e.g.
	// REFRAIN_LOGGING_LEVEL for logging.level
	viper.SetEnvPrefix("REFRAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars can override keys
// that appear in no config file
func setDefaults(cfg *model.Config) {
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.format", cfg.Logging.Format)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.ttl", cfg.Cache.TTL)
	viper.SetDefault("cache.cleanup_interval", cfg.Cache.CleanupInterval)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("concurrency.stats_workers", cfg.Concurrency.StatsWorkers)
	viper.SetDefault("rate_limiting.files_per_second", cfg.RateLimiting.FilesPerSecond)
	viper.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.include_footer", cfg.Output.IncludeFooter)
	viper.SetDefault("output.trace", cfg.Output.Trace)
	viper.SetDefault("output.top", cfg.Output.Top)
	viper.SetDefault("share.base_url", cfg.Share.BaseURL)
}

// loadConfig resolves defaults, config file and env vars into a Config and
// installs the logger it describes. Command flags are applied by callers.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	level := cfg.Logging.Level
	if cfg.Output.Verbose {
		level = "debug"
	}
	logger.Setup(level, cfg.Logging.Format)

	return cfg, nil
}
