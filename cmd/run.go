package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/api"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/batch"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/config"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/logging"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress/sinks"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/psi"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/store"
)

// newRunCmd creates and configures the 'run' subcommand, which executes one
// batch over the configured URL list.
func newRunCmd() *cobra.Command {
	var (
		urlsFile   string
		force      bool
		delay      float64
		check      bool
		noResume   bool
		statusAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetches metrics for the URL list, resuming where the last run stopped",
		Long: `Fetches PageSpeed Insights metrics for every URL in the list and merges
them into the on-disk dataset. The dataset is checkpointed after every
successful fetch, so an interrupted run resumes after the last recorded
URL. URLs that already have a record are skipped unless --force is given.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("urls-file") {
				cfg.Batch.URLsFile = urlsFile
			}
			if cmd.Flags().Changed("delay") {
				if delay < 0 {
					return fmt.Errorf("--delay must be >= 0")
				}
				cfg.Batch.DelaySeconds = delay
			}
			if cmd.Flags().Changed("status-addr") {
				cfg.Status.Addr = statusAddr
			}

			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			opts := batch.Options{
				Force:    force,
				NoResume: noResume,
				Delay:    cfg.Delay(),
			}
			if check {
				return runCheck(cfg, opts, logger)
			}
			return runBatch(cmd.Context(), cfg, opts, logger)
		},
	}

	cmd.Flags().StringVar(&urlsFile, "urls-file", "", "path to the URLs file (overrides batch.urls_file)")
	cmd.Flags().BoolVar(&force, "force", false, "refetch URLs even if results already exist")
	cmd.Flags().Float64Var(&delay, "delay", 0, "delay between requests in seconds (overrides batch.delay_seconds)")
	cmd.Flags().BoolVar(&check, "check", false, "only report what would be fetched/skipped, without any requests")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "disable resuming from the last recorded item")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "address for the status/metrics listener (overrides status.addr)")

	return cmd
}

// runCheck executes the dry-run inspection: plan only, no network, no writes.
func runCheck(cfg config.Config, opts batch.Options, logger *zap.Logger) error {
	urls, prior, _, err := loadInputs(cfg, logger)
	if err != nil {
		return err
	}

	engine := batch.NewEngine(nil, nil, prior, opts, logger, nil, nil)
	plan := engine.Plan(urls)

	logger.Info("check mode: no requests will be made",
		zap.Int("existing_records", plan.Existing),
		zap.Int("resume_index", plan.ResumeIndex),
		zap.Bool("resume_miss", plan.ResumeMiss),
		zap.Int("skipped", len(plan.Skipped)),
		zap.Int("to_fetch", len(plan.ToFetch)),
	)
	return nil
}

func runBatch(parent context.Context, cfg config.Config, opts batch.Options, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urls, prior, ds, err := loadInputs(cfg, logger)
	if err != nil {
		return err
	}

	client := psi.NewClient(psi.ClientConfig{
		Endpoint:   cfg.API.Endpoint,
		APIKey:     cfg.API.Key,
		Strategy:   cfg.API.Strategy,
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.API.MaxRetries,
		Backoff:    cfg.Backoff(),
	}, logger.Named("psi"))

	statusSink := sinks.NewStatus()
	hub := progress.NewHub(logger,
		sinks.NewLog(logger.Named("progress")),
		sinks.NewPrometheus(),
		statusSink,
	)
	defer hub.Close()

	if cfg.Status.Addr != "" {
		server := api.NewServer(cfg.Status.Addr, statusSink, logger.Named("api"))
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("status listener shutdown failed", zap.Error(err))
			}
		}()
	}

	engine := batch.NewEngine(client, ds, prior, opts, logger.Named("batch"), hub, nil)
	if _, err := engine.Run(ctx, urls); err != nil {
		return fmt.Errorf("run batch: %w", err)
	}
	return nil
}

func loadInputs(cfg config.Config, logger *zap.Logger) ([]string, []psi.Record, *store.Dataset, error) {
	urls, err := store.LoadURLs(cfg.Batch.URLsFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load urls: %w", err)
	}
	ds, err := store.NewDataset(cfg.Output.JSONPath, cfg.Output.CSVPath, logger.Named("store"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init dataset: %w", err)
	}
	prior := ds.Load()
	logger.Info("inputs loaded",
		zap.Int("urls", len(urls)),
		zap.Int("existing_records", len(prior)),
	)
	return urls, prior, ds, nil
}
