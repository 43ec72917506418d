package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/web"
	"github.com/abhisek/learncoach/internal/web/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := rt.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		srv, err := web.NewServer(web.RouterConfig{
			Log:           rt.log,
			ServiceName:   "learncoach",
			CORSOrigins:   rt.cfg.Server.CORSOrigins,
			HealthHandler: handlers.NewHealthHandler(),
			APIHandler:    handlers.NewAPIHandler(rt.coach, rt.pipeline, rt.log),
			PageHandler:   handlers.NewPageHandler(rt.coach, rt.pipeline, rt.log),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
