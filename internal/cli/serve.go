package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-board/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer schedules over HTTP",
		Long: "Run the schedule endpoint used by --source api:\n\n" +
			"  GET /prayers?lat=&lng=[&method=][&school=][&date=YYYY-MM-DD]\n" +
			"  GET /prayers/state?lat=&lng=\n" +
			"  GET /methods\n" +
			"  GET /healthz",
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(server.Options{
		Addr:     cfg.ListenAddr,
		Method:   cfg.Method,
		School:   cfg.School,
		Location: loc,
		Now:      now,
	}).Run(ctx)
}
