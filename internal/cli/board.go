package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-board/internal/api"
	"github.com/smokyabdulrahman/prayer-board/internal/display"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

// runBoard renders the board once, or prints the derived state with --json.
func runBoard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig

	p, err := resolvePlace(ctx, cfg)
	if err != nil {
		return err
	}

	t := now().In(p.Location)
	schedule, err := newSource(cfg, p).Schedule(ctx, t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, api.FromState(prayer.Derive(schedule, t)))
	}

	r := display.NewRenderer(out, false, prayer.Layout(cfg.TimeFormat))
	fmt.Fprintln(out, r.Board(display.Frame{
		Now:      t,
		Schedule: schedule,
		Location: p.Label,
	}))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}
