package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formsubmit/pkg/adminforms"
	"github.com/goliatone/go-formsubmit/pkg/client"
	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/metrics"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/prompt"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Fill in and submit an admin form",
		UsageText: "formsubmit submit --form themeForm [--values values.yaml] [--param publicationId=...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "form",
				Usage:    "Form id (see `formsubmit forms`)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "api",
				Sources: cli.EnvVars("FORMSUBMIT_API_URL"),
				Usage:   "Admin API base URL",
				Value:   "http://localhost:8080",
			},
			&cli.StringFlag{
				Name:    "token",
				Sources: cli.EnvVars("FORMSUBMIT_TOKEN"),
				Usage:   "Bearer token sent with every request",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 30 * time.Second,
			},
			&cli.StringFlag{
				Name:    "mappings",
				Sources: cli.EnvVars("FORMSUBMIT_MAPPINGS"),
				Usage:   "Directory of JSON/YAML field mapping files",
			},
			&cli.StringFlag{
				Name:  "values",
				Usage: "JSON or YAML file with initial values",
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Form parameter as key=value (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "no-input",
				Usage: "Submit the given values once without prompting",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Expose submission metrics on this address while running",
			},
		},
		Action: runSubmit,
	}
}

func runSubmit(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	out := stdout(cmd)

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	opts := []adminforms.Option{adminforms.WithLogger(logger)}
	if dir := cmd.String("mappings"); dir != "" {
		set, err := validation.LoadMappings(os.DirFS(dir))
		if err != nil {
			return fmt.Errorf("load mappings: %w", err)
		}
		opts = append(opts, adminforms.WithMappingSet(set))
	}
	if addr := cmd.String("metrics-addr"); addr != "" {
		observer, stop := serveMetrics(ctx, addr, logger)
		defer stop()
		opts = append(opts, adminforms.WithObserver(observer))
	}

	headers := map[string]string{}
	if token := cmd.String("token"); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	c := client.New(client.Config{
		BaseURL: cmd.String("api"),
		Timeout: cmd.Duration("timeout"),
		Headers: headers,
		Logger:  &logger,
	})

	entry, err := adminforms.Open(cmd.String("form"), adminforms.NewAPI(c), params, opts...)
	if err != nil {
		return err
	}
	defer entry.Destroy()

	values := prompt.Values(entry.Values())
	if path := cmd.String("values"); path != "" {
		loaded, err := readValues(path)
		if err != nil {
			return err
		}
		for k, v := range loaded {
			values[k] = v
		}
	}

	if cmd.Bool("no-input") {
		return submitOnce(ctx, out, entry, values)
	}
	return submitInteractive(ctx, out, entry, values, prompt.New(prompt.WithLogger(logger)))
}

func submitOnce(ctx context.Context, out io.Writer, entry adminforms.Entry, values prompt.Values) error {
	if err := entry.Bind(values); err != nil {
		return err
	}
	result, err := entry.Submit(ctx)
	if err != nil {
		return err
	}
	report(out, entry, result)
	if result.Status != form.StatusSucceeded {
		return cli.Exit("", 2)
	}
	return nil
}

func submitInteractive(ctx context.Context, out io.Writer, entry adminforms.Entry, values prompt.Values, collector *prompt.Collector) error {
	for {
		collected, err := collector.Collect(ctx, entry.Model(), values, entry.FieldErrors())
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
		if err != nil {
			return err
		}
		values = collected

		if err := entry.Bind(values); err != nil {
			return err
		}
		result, err := entry.Submit(ctx)
		if err != nil {
			return err
		}
		if result.Status == form.StatusSucceeded {
			report(out, entry, result)
			return nil
		}
		if summary := entry.Summary(); len(summary) > 0 {
			if err := collector.Summary(ctx, summary); err != nil {
				return err
			}
		}
	}
}

func report(out io.Writer, entry adminforms.Entry, result form.Result) {
	m := entry.Model()
	switch result.Status {
	case form.StatusSucceeded:
		fmt.Fprintf(out, "%s submitted.\n", displayTitle(m))
		return
	case form.StatusIgnored:
		fmt.Fprintln(out, "A submission is already in progress.")
		return
	}

	fmt.Fprintln(out, "There is a problem")
	fieldErrs := entry.FieldErrors()
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(out, "  - %s: %s\n", fieldLabel(m, field), fieldErrs[field])
	}
	for _, message := range entry.Summary() {
		fmt.Fprintf(out, "  - %s\n", message)
	}
}

func displayTitle(m model.FormModel) string {
	if m.Title != "" {
		return m.Title
	}
	return m.ID
}

func fieldLabel(m model.FormModel, path string) string {
	name, _, nested := strings.Cut(path, ".")
	field, ok := m.Field(name)
	if !ok || nested {
		return path
	}
	return field.DisplayLabel()
}

func parseParams(raw []string) (adminforms.Params, error) {
	params := make(adminforms.Params, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

// readValues decodes a YAML or JSON document of initial values.
func readValues(path string) (prompt.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := prompt.Values{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

// serveMetrics exposes a fresh registry on addr until stop is called.
func serveMetrics(ctx context.Context, addr string, logger zerolog.Logger) (*metrics.Observer, func()) {
	observer := metrics.NewWithRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Handle("/metrics", observer.Handler())
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := runServer(ctx, srv, nil); err != nil {
			logger.Warn().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
	logger.Debug().Str("addr", addr).Msg("metrics listening")

	return observer, func() {
		cancel()
		<-done
	}
}
