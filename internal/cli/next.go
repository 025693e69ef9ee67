package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-board/internal/api"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Print the next upcoming prayer on one line, for status bars such as tmux.\n" +
			"After Isha the countdown runs to tomorrow's first prayer.",
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull,
		"Display format: "+strings.Join(prayer.Modes, ", ")+", or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track, e.g. Fajr,Maghrib")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig

	p, err := resolvePlace(ctx, cfg)
	if err != nil {
		return err
	}
	src := newSource(cfg, p)

	t := now().In(p.Location)
	today, err := src.Schedule(ctx, t)
	if err != nil {
		return err
	}
	selected := splitNames(flagPrayers)
	today = filterSchedule(today, selected)

	current := prayer.CurrentPrayer(today, t)
	next := prayer.NextPrayer(today, t)

	// If all today's prayers have passed, count down to tomorrow's first.
	if next == nil {
		tomorrow, fetchErr := src.Schedule(ctx, t.AddDate(0, 0, 1))
		tomorrow = filterSchedule(tomorrow, selected)
		if fetchErr != nil || len(tomorrow) == 0 {
			if fetchErr != nil {
				log.Warn().Err(fetchErr).Msg("fetching tomorrow's schedule")
			}
			// Keep the status bar readable rather than failing it.
			if len(today) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s --:--", today[len(today)-1].Name)
				return nil
			}
			if fetchErr != nil {
				return fetchErr
			}
			return errors.New("could not determine next prayer")
		}
		next = &tomorrow[0]
	}

	if FlagJSON {
		mins := prayer.MinutesUntil(*next, t)
		return writeJSON(cmd.OutOrStdout(), api.FromState(prayer.State{
			Current:          current,
			Next:             next,
			MinutesUntilNext: &mins,
		}))
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(*next, current, t, flagFormat, prayer.Layout(loadedConfig.TimeFormat)))
	return nil
}

func splitNames(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	names := strings.Split(list, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

// filterSchedule keeps the prayers named in names, matching case-insensitively.
// An empty names keeps everything.
func filterSchedule(schedule []prayer.Prayer, names []string) []prayer.Prayer {
	if len(names) == 0 {
		return schedule
	}
	out := schedule[:0:0]
	for _, p := range schedule {
		for _, n := range names {
			if strings.EqualFold(p.Name, n) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
