package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
	"github.com/houghtp/terra-automation-platform-sub005/internal/scheduler"
	"github.com/houghtp/terra-automation-platform-sub005/internal/webapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		server := webapi.NewServer(webapi.Options{
			Engine:         a.engine,
			Store:          a.store,
			Registry:       a.registry,
			ProcessTimeout: time.Duration(a.cfg.Pipeline.ProcessTimeoutSec) * time.Second,
		})

		if a.cfg.Scheduler.Enabled {
			sched, err := scheduler.New(a.cfg.Scheduler, a.store, a.engine)
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(a.cfg.Server.Port)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info("received %s, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
