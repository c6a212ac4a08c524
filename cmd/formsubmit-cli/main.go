package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "formsubmit",
		Usage: "Submit admin forms and map validation failures onto fields",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Sources: cli.EnvVars("FORMSUBMIT_LOG_LEVEL"),
				Usage:   "Log level (debug|info|warn|error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-format",
				Sources: cli.EnvVars("FORMSUBMIT_LOG_FORMAT"),
				Usage:   "Log format (console|json)",
				Value:   "console",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			submitCommand(),
			mappingsCommand(),
			formsCommand(),
		},
	}
}

func newLogger(cmd *cli.Command) zerolog.Logger {
	level, err := zerolog.ParseLevel(cmd.String("log-level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cmd.String("log-format") != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
