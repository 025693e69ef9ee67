package cli

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-board/internal/config"
	"github.com/smokyabdulrahman/prayer-board/internal/geo"
	"github.com/smokyabdulrahman/prayer-board/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude   float64
	FlagLongitude  float64
	FlagMethod     string
	FlagSchool     string
	FlagSource     string
	FlagAPIURL     string
	FlagTimeFormat string
	FlagTimezone   string
	FlagLogLevel   string
	FlagJSON       bool
	FlagConfig     string
)

// loadedConfig holds the effective config resolved during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// Seams for tests.
var (
	now            = time.Now
	detectLocation = geo.DetectLocation
)

// NewRootCmd creates the root command for the prayer-board CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prayer-board",
		Short: "Islamic prayer board for the terminal",
		Long: "Shows the prayer currently in effect, a countdown to the next one and\n" +
			"today's schedule. Schedules come from a prayer-board server (--source api)\n" +
			"or are computed locally (--source local).",
		Version:           version,
		PersistentPreRunE: loadConfig,
		// Default action: render the board once.
		RunE:          runBoard,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "lat", 0, "Latitude (overrides config)")
	pf.Float64Var(&FlagLongitude, "lng", 0, "Longitude (overrides config)")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method, see 'prayer-board methods'")
	pf.StringVar(&FlagSchool, "school", "", "Asr school: Standard or Hanafi")
	pf.StringVar(&FlagSource, "source", "", "Schedule source: api or local")
	pf.StringVar(&FlagAPIURL, "api-url", "", "Schedule endpoint base URL for --source api")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone (default: from location)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagConfig, "config", "", "Config file (default: ~/.config/prayer-board/config.json)")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("prayer-board %s\n", version)
}

// loadConfig resolves the effective configuration and sets up logging.
// Priority: CLI flags > environment (.env included) > config file > defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	loadedConfig = cfg

	// Servers log JSON for collectors; interactive commands log for humans.
	jsonLogs := FlagJSON || cmd.Name() == "serve"
	return logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, jsonLogs)
}

// configPath returns --config or the default config file location.
func configPath() (string, error) {
	if FlagConfig != "" {
		return FlagConfig, nil
	}
	return config.Path()
}
