package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formsubmit/internal/adminapi"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the in-memory admin API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Sources: cli.EnvVars("FORMSUBMIT_ADDR"),
				Usage:   "Listen address",
				Value:   ":8080",
			},
			&cli.StringSliceFlag{
				Name:  "user",
				Usage: "Email of an existing user account (repeatable)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd)

			store := adminapi.NewStore(adminapi.WithUsers(cmd.StringSlice("user")...))
			router := adminapi.NewHandler(store, adminapi.WithLogger(logger)).Router()
			router.Handle("/metrics", promhttp.Handler())

			srv := &http.Server{
				Addr:              cmd.String("addr"),
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}
			return runServer(ctx, srv, func(addr string) {
				logger.Info().Str("addr", addr).Msg("admin API listening")
			})
		},
	}
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, started func(addr string)) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	if started != nil {
		started(srv.Addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(drainCtx)
}
