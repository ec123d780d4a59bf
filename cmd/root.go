package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/huangsam/trendbox/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profilePrefix is non-empty while CPU profiling is running.
var profilePrefix string

// startProfiling starts CPU profiling and remembers the prefix for the heap profile.
func startProfiling(prefix string) error {
	cpuFile, err := os.Create(prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		_ = cpuFile.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	profilePrefix = prefix

	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", prefix, prefix)
	return err
}

// StopProfiling stops profiling if enabled and writes the memory profile.
func StopProfiling() error {
	if profilePrefix == "" {
		return nil
	}
	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profilePrefix)
	profilePrefix = ""
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "trendbox",
	Short:              "Summarize a dated series into weekly or monthly trend charts.",
	Long:               `Trendbox buckets dated rows by week or month, keeps a trailing window and reports growth against the prior period, last year and period-to-date.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".trendbox")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("TRENDBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("date-field", "#1")
	viper.SetDefault("value-field", "#2")
	viper.SetDefault("target-field", "#3")
	viper.SetDefault("historical-field", "#4")
	viper.SetDefault("weeks", contract.DefaultTrailingWeeks)
	viper.SetDefault("months", contract.DefaultMonthCount)
	viper.SetDefault("timezone", contract.DefaultTimezone)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("graph-number", schema.DefaultGraphNumber)
	viper.SetDefault("history-backend", schema.NoneBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("addr", contract.DefaultServeAddr)
}

// sharedSetup unmarshals config, runs validation and opens run history.
func sharedSetup(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := configSetup(ctx, cmd, args); err != nil {
		return err
	}
	if err := runstore.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// configSetup resolves and validates the configuration without touching run history.
func configSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if prefix := strings.TrimSpace(viper.GetString("profile")); prefix != "" && profilePrefix == "" {
		if err := startProfiling(prefix); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.InputPathStr = args[0]
	} else {
		input.InputPathStr = "-"
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.ConfigureLogger(cfg.Verbose, viper.GetBool("log-json"))
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper wraps configSetup for commands that manage the history database directly.
func configSetupWrapper(cmd *cobra.Command, args []string) error {
	return configSetup(rootCtx, cmd, args)
}

// serverSetup is sharedSetup for long-running hosts, which have no positional
// input and resolve an unset reference time per request.
func serverSetup(cmd *cobra.Command, _ []string) error {
	if err := sharedSetup(rootCtx, cmd, nil); err != nil {
		return err
	}
	if strings.TrimSpace(input.Now) == "" {
		cfg.ReferenceNow = time.Time{}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
