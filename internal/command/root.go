// Package command wires the cobra command line for the most-active cookie analyzer.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"example.com/mostactive/internal/config"
	"example.com/mostactive/internal/cookielog"
	"example.com/mostactive/internal/domain"
	"example.com/mostactive/internal/observability"
	"example.com/mostactive/internal/publish"
)

const AppName = "mostactive"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

type options struct {
	files       []string
	date        string
	json        bool
	quiet       bool
	ext         string
	metricsFile string
	publish     bool
}

func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   AppName + " -f <file>... -d <YYYY-MM-DD>",
		Short: "Report the most active cookies for a day",
		Long: "Reads cookie access logs (cookie,timestamp with a header line, most recent first)\n" +
			"and prints the cookie(s) seen most often on the given date, one per line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			opts.apply(cmd, &cfg)
			files := append(append([]string(nil), opts.files...), args...)
			if err := run(cmd, cfg, files, opts.date); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return writeCommandError(c, err)
	})

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "cookie log file to read (repeatable, - for stdin)")
	flags.StringVarP(&opts.date, "date", "d", "", "target date in YYYY-MM-DD form")
	flags.BoolVar(&opts.json, "json", false, "output the full report as JSON")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress diagnostic logging")
	flags.StringVar(&opts.ext, "ext", "", "required file extension (empty string accepts any file)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file (- prints them to stderr)")
	flags.BoolVar(&opts.publish, "publish", false, "publish the report to Kafka")

	return cmd
}

func Execute() error {
	return NewRootCmd(Version).Execute()
}

// apply overrides configuration values with flags set on the command line.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("json") {
		cfg.Output = config.OutputText
		if o.json {
			cfg.Output = config.OutputJSON
		}
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.quiet
	}
	if flags.Changed("ext") {
		cfg.FileExtension = o.ext
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if flags.Changed("publish") {
		cfg.Publish = o.publish
	}
}

func run(cmd *cobra.Command, cfg config.Config, files []string, rawDate string) error {
	if len(files) == 0 {
		return domain.ErrNoSources
	}
	if rawDate == "" {
		return errMissingDate
	}
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Quiet)
	loader := cookielog.NewLoader(cookielog.WithLogger(logger))
	service := domain.NewService(loader)

	start := time.Now()
	report, err := service.MostActiveCookies(buildSources(cmd, files, cfg.FileExtension), date)
	observability.ObserveRun(start, err == nil)
	if err != nil {
		return err
	}
	logSummary(logger, report)

	if err := writeReport(cmd.OutOrStdout(), cfg.Output, report); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cmd.ErrOrStderr(), cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if cfg.Publish {
		return publishReport(cmd.Context(), cfg, logger, report)
	}
	return nil
}

func newLogger(w io.Writer, quiet bool) *log.Logger {
	if quiet {
		w = io.Discard
	}
	return log.New(w, "["+AppName+"] ", log.LstdFlags)
}

func buildSources(cmd *cobra.Command, files []string, ext string) []domain.Source {
	sources := make([]domain.Source, 0, len(files))
	for _, path := range files {
		if path == "-" {
			sources = append(sources, cookielog.NewReaderSource("stdin", io.NopCloser(cmd.InOrStdin())))
			continue
		}
		sources = append(sources, cookielog.FileSource{Path: path, Extension: ext})
	}
	return sources
}

func logSummary(logger *log.Logger, report *domain.Report) {
	stats := report.Stats
	logger.Printf("run %s: date=%s sources=%d skipped=%d lines=%d failures=%d matched=%d winners=%d max=%d",
		report.RunID, report.Date, stats.SourcesRead, len(stats.SkippedSources), stats.LinesRead,
		len(stats.LineFailures), stats.RecordsMatched, len(report.Cookies), report.MaxCount)
}

func writeReport(w io.Writer, output string, report *domain.Report) error {
	switch output {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case config.OutputText:
		for _, id := range report.Cookies {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func writeMetrics(stderr io.Writer, path string) error {
	if path != "-" {
		return observability.WriteTextfile(path)
	}

	snapshot, err := observability.Snapshot(prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(stderr, "%s %g\n", name, snapshot[name])
	}
	return nil
}

func publishReport(ctx context.Context, cfg config.Config, logger *log.Logger, report *domain.Report) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout)
	defer cancel()

	producer := publish.NewKafkaProducer(cfg.KafkaBrokers, cfg.PublishTimeout)
	defer producer.Close()

	opts := []publish.Option{publish.WithLogger(logger)}
	if cfg.SchemaRegistryURL != "" {
		opts = append(opts, publish.WithSchemaRegistry(publish.NewSchemaRegistryClient(cfg.SchemaRegistryURL, cfg.PublishTimeout)))
	}

	return publish.NewPublisher(producer, cfg.ReportTopic, opts...).Publish(ctx, report)
}
