package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	httpctrl "github.com/notedrop/notedrop/pkg/controller/http"
	"github.com/notedrop/notedrop/pkg/service/worker"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var syncInterval time.Duration
	var common commonConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("NOTEDROP_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval between background sync passes",
			Value:       time.Minute,
			Sources:     cli.EnvVars("NOTEDROP_SYNC_INTERVAL"),
			Destination: &syncInterval,
		},
	}
	flags = append(flags, common.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server with background sync",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, uc, err := common.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			syncWorker := worker.NewSyncWorker(uc, syncInterval)
			if err := syncWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start sync worker")
			}
			defer syncWorker.Stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			sigCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("HTTP server starting", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server failed")
			case <-sigCtx.Done():
			}

			logging.Default().Info("Shutting down HTTP server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}

			return nil
		},
	}
}
