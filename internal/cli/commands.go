package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-board/internal/api"
	"github.com/smokyabdulrahman/prayer-board/internal/calc"
	"github.com/smokyabdulrahman/prayer-board/internal/config"
	"github.com/smokyabdulrahman/prayer-board/internal/display"
	"github.com/smokyabdulrahman/prayer-board/internal/logging"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display the config file, or use subcommands to modify it.\nWhen run without subcommands, shows each key and its stored value.",
		// The config commands must work even when the stored config is
		// invalid, so they skip the root's config resolution.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(cmd.ErrOrStderr(), FlagLogLevel, FlagJSON)
		},
		RunE: runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  prayer-board config set latitude 24.7136\n  prayer-board config set longitude 46.6753\n  prayer-board config set method Makkah\n  prayer-board config set time_format 24h\n  prayer-board config set source local",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the stored configuration next to the defaults.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	defaults := config.Defaults()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = "(not set)"
			if def, _ := defaults.Get(key); def != "" {
				shown = fmt.Sprintf("(not set, default %s)", def)
			}
		}
		fmt.Fprintf(out, "  %-12s %s\n", key, shown)
	}
	return nil
}

// runConfigSet validates and stores a config key.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := config.ResetAt(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the supported calculation methods and Asr schools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if FlagJSON {
				return writeJSON(out, api.FromMethods(calc.Methods))
			}

			r := display.NewRenderer(out, false, "")

			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)
			tbl := r.NewTable([]string{"Name", "Fajr", "Isha", "Description"})
			for i, m := range calc.Methods {
				tbl.AddRow([]string{m.Name, fmt.Sprintf("%g°", m.FajrAngle), ishaRule(m), m.Description})
				if m.Name == loadedConfig.Method {
					tbl.SetHighlightRow(i)
				}
			}
			fmt.Fprint(out, tbl.Render())

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Asr schools:")
			fmt.Fprintln(out)
			schools := r.NewTable([]string{"Name", "Shadow", "Description"})
			for _, s := range calc.Schools {
				schools.AddRow([]string{s.Name, fmt.Sprintf("%gx", s.ShadowFactor), s.Description})
			}
			fmt.Fprint(out, schools.Render())

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Use --method <name> and --school <name> to select. Defaults: %s, %s.\n",
				calc.DefaultMethod, calc.DefaultSchool)
			return nil
		},
	}
}

func ishaRule(m calc.Method) string {
	if m.IshaMinutes > 0 {
		return fmt.Sprintf("%d min after Maghrib", m.IshaMinutes)
	}
	return fmt.Sprintf("%g°", m.IshaAngle)
}
