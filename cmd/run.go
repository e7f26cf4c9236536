package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/showcase-publisher/internal/clock/system"
	"github.com/JakeFAU/showcase-publisher/internal/config"
	"github.com/JakeFAU/showcase-publisher/internal/extract"
	collyfetcher "github.com/JakeFAU/showcase-publisher/internal/fetcher/colly"
	"github.com/JakeFAU/showcase-publisher/internal/generator/openai"
	"github.com/JakeFAU/showcase-publisher/internal/id/uuid"
	"github.com/JakeFAU/showcase-publisher/internal/logging"
	"github.com/JakeFAU/showcase-publisher/internal/progress"
	"github.com/JakeFAU/showcase-publisher/internal/progress/sinks"
	"github.com/JakeFAU/showcase-publisher/internal/publisher/memory"
	"github.com/JakeFAU/showcase-publisher/internal/publisher/wordpress"
	"github.com/JakeFAU/showcase-publisher/internal/showcase"
	"github.com/JakeFAU/showcase-publisher/internal/worker"
)

// newRunCmd creates and configures the 'run' subcommand.
func newRunCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "run [urls...]",
		Short: "Publishes one showcase entry per URL",
		Long: `Processes the URLs given as arguments, or the configured urls list when none
are given, strictly one after the other. A URL that cannot be fetched or whose
entry cannot be created is logged and skipped; the run always continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configFile, root.envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(args) > 0 {
				cfg.URLs = args
			}

			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			_, err = runPipeline(cmd.Context(), cfg, dryRun, logger)
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "publish to an in-memory CMS and log the result instead")
	return cmd
}

// runPipeline wires every adapter from cfg and processes cfg.URLs once.
func runPipeline(ctx context.Context, cfg config.Config, dryRun bool, logger *zap.Logger) (worker.Report, error) {
	if len(cfg.URLs) == 0 {
		logger.Warn("No URLs to process")
	}

	registry := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return worker.Report{}, fmt.Errorf("init metrics: %w", err)
	}
	emitter := progress.NewFanout(logger, sinks.NewLogSink(logger), promSink)
	defer func() {
		if cerr := emitter.Close(ctx); cerr != nil {
			logger.Warn("Failed to close progress sinks", zap.Error(cerr))
		}
	}()

	publisher, closePublisher, err := buildPublisher(cfg.CMS, dryRun, logger)
	if err != nil {
		return worker.Report{}, err
	}
	defer func() {
		if cerr := closePublisher(); cerr != nil {
			logger.Warn("Failed to close publisher", zap.Error(cerr))
		}
	}()

	ai := openai.New(openai.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		TextModel:  cfg.OpenAI.TextModel,
		ImageModel: cfg.OpenAI.ImageModel,
		ImageSize:  cfg.OpenAI.ImageSize,

		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
	}, logger)

	w, err := worker.New(worker.Deps{
		Fetcher: collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Fetch.Timeout,
		}, logger),
		Extractor:  extract.New(),
		Summarizer: ai,
		Images:     ai,
		Downloader: collyfetcher.NewDownloader(cfg.Download.Timeout, logger),
		Publisher:  publisher,
		Clock:      system.New(),
		IDs:        uuid.New(),
		Emitter:    emitter,
		Logger:     logger,
	})
	if err != nil {
		return worker.Report{}, fmt.Errorf("init worker: %w", err)
	}

	report, err := w.Run(ctx, cfg.URLs)
	if err != nil {
		return report, fmt.Errorf("run: %w", err)
	}
	logReport(logger, report)
	if mem, ok := publisher.(*memory.Publisher); ok {
		logDryRun(logger, mem)
	}

	if cfg.Metrics.Textfile != "" {
		if werr := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); werr != nil {
			logger.Warn("Failed to write metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(werr))
		}
	}
	return report, nil
}

func buildPublisher(cfg config.CMSConfig, dryRun bool, logger *zap.Logger) (showcase.Publisher, func() error, error) {
	if dryRun {
		logger.Info("Dry run: entries will not leave this process")
		return memory.New(), func() error { return nil }, nil
	}
	wp, err := wordpress.New(wordpress.Config{
		URL:        cfg.URL,
		Username:   cfg.Username,
		Password:   cfg.Password,
		BlogID:     cfg.BlogID,
		PostType:   cfg.PostType,
		PostStatus: cfg.PostStatus,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init wordpress publisher: %w", err)
	}
	return wp, wp.Close, nil
}

func logReport(logger *zap.Logger, report worker.Report) {
	for _, u := range report.URLs {
		fields := []zap.Field{
			zap.String("url", u.URL),
			zap.String("title", u.Title),
			zap.String("status", string(u.Status)),
			zap.String("entry_id", u.EntryID),
			zap.Duration("dur", u.Duration),
		}
		if u.Err != nil {
			fields = append(fields, zap.Error(u.Err))
		}
		if len(u.FieldErrors) > 0 {
			missing := make([]string, 0, len(u.FieldErrors))
			for key := range u.FieldErrors {
				missing = append(missing, key)
			}
			fields = append(fields, zap.Strings("missing_fields", missing))
		}
		logger.Info("URL summary", fields...)
	}
	if report.Canceled {
		logger.Warn("Run interrupted before every URL was processed", zap.Int("processed", len(report.URLs)))
	}
}

func logDryRun(logger *zap.Logger, mem *memory.Publisher) {
	for _, entry := range mem.Entries() {
		logger.Info("Dry run entry",
			zap.String("entry_id", entry.ID),
			zap.String("title", entry.Title),
			zap.String("featured_media", entry.FeaturedMedia),
			zap.Any("fields", entry.Fields),
		)
	}
}
