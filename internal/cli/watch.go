package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-board/internal/board"
	"github.com/smokyabdulrahman/prayer-board/internal/display"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live, self-refreshing board",
		Long:  "Full-screen board that updates its countdown and fetches a new schedule at midnight.\nPress q to quit, r to refresh.",
		RunE:  runWatch,
	}
	cmd.Flags().String("refresh", "", "Refresh interval, e.g. 30s (overrides config)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig

	p, err := resolvePlace(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	m := board.New(ctx, board.Options{
		Fetch:         newSource(cfg, p).Schedule,
		Renderer:      display.NewRenderer(out, false, prayer.Layout(cfg.TimeFormat)),
		Refresh:       cfg.RefreshInterval(),
		Location:      p.Location,
		LocationLabel: p.Label,
		Now:           now,
	})
	return board.Run(ctx, m, tea.WithOutput(out))
}
