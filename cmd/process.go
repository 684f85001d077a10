// =============================================================================
// Card Transaction ETL - Process Command
// =============================================================================
//
// The 'process' command runs the pipeline:
//   1. Load configuration and the schema rule table
//   2. Resolve which batches to process (explicit key, event payload, or
//      discovery over the landing zone)
//   3. For each batch: read bytes, parse rows, partition into valid/invalid,
//      write the non-empty JSONL payloads to the green zone
//   4. Archive processed inputs and log a summary per batch
//
// Row-level validation failures never abort a batch — they are data, routed
// to the invalid output. Structural failures (bad key suffix, undecodable
// bytes, missing header columns) abort that batch only; remaining batches
// still run.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/greenzone-datalake/card-transaction-etl/internal/config"
	"github.com/greenzone-datalake/card-transaction-etl/internal/csvparser"
	"github.com/greenzone-datalake/card-transaction-etl/internal/event"
	"github.com/greenzone-datalake/card-transaction-etl/internal/logging"
	"github.com/greenzone-datalake/card-transaction-etl/internal/notify"
	"github.com/greenzone-datalake/card-transaction-etl/internal/partition"
	"github.com/greenzone-datalake/card-transaction-etl/internal/schema"
	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
	"github.com/greenzone-datalake/card-transaction-etl/internal/validator"
	"github.com/greenzone-datalake/card-transaction-etl/pkg/utils"
)

// batchKey processes a single batch identified by its landing-zone key.
var batchKey string

// eventPath points at a JSON invocation payload (direct or notification
// envelope) naming the batch to process.
var eventPath string

// dryRun partitions batches without writing outputs or archiving inputs.
var dryRun bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Validate and partition pending card-transaction batches",
	Long: `The process command reads card-transaction batches from the landing zone,
validates every row, and writes the valid and invalid JSONL outputs to the
green zone.

By default every pending .csv object in the landing zone is processed. A
single batch can be selected with --file (a landing-zone key) or --event
(a JSON invocation payload).

A batch with zero valid rows produces no valid output object, and a batch
with zero invalid rows produces no invalid output object; empty files are
never written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&batchKey, "file", "", "Process a single batch by landing-zone key")
	processCmd.Flags().StringVar(&eventPath, "event", "", "Path to a JSON invocation payload naming the batch")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Partition without writing outputs or archiving inputs")
}

// runProcess orchestrates one pipeline run.
func runProcess() error {
	start := time.Now()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Init(cfg.LogLevel, verbose)

	rules, err := loadSchema(cfg)
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(cfg.LandingDir, cfg.GreenZoneDir, cfg.ArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	keys, err := resolveBatchKeys(cfg, fm, logger)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		logger.Info("no pending batches in the landing zone", "landingDir", cfg.LandingDir)
		return nil
	}

	var publisher *notify.Publisher
	if cfg.Kafka.Enabled() && !dryRun {
		publisher = notify.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
	}

	part := partition.New(validator.New(rules), cfg.MaxConcurrency)
	columns := rules.Columns()

	var failed int
	for _, key := range keys {
		summary, err := processBatch(cfg, fm, part, columns, key)
		if err != nil {
			failed++
			logger.Error("batch failed", "inputKey", key, "error", err)
			continue
		}

		logger.Info("batch processed",
			"runId", summary.RunID,
			"inputKey", summary.InputKey,
			"validKey", summary.ValidKey,
			"invalidKey", summary.InvalidKey,
			"validCount", summary.ValidCount,
			"invalidCount", summary.InvalidCount,
		)

		if publisher != nil {
			if err := publisher.PublishSummary(context.Background(), summary); err != nil {
				// Outputs are already persisted; a lost notification is
				// recoverable downstream.
				logger.Warn("failed to publish summary", "inputKey", key, "error", err)
			}
		}
	}

	logger.Info("run complete",
		"batches", len(keys),
		"failed", failed,
		"elapsed", time.Since(start).String(),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d batch(es) failed", failed, len(keys))
	}
	return nil
}

// processBatch runs the core over one batch and persists its outputs. The
// header of the batch must contain every column of the active schema.
func processBatch(cfg *config.Config, fm *utils.FileManager, part *partition.Partitioner, columns []string, key string) (types.Summary, error) {
	validKey, invalidKey, err := partition.DeriveOutputKeys(key)
	if err != nil {
		return types.Summary{}, err
	}

	data, err := fm.ReadObject(key)
	if err != nil {
		return types.Summary{}, err
	}

	rows, err := csvparser.Parse(data, columns)
	if err != nil {
		return types.Summary{}, err
	}

	result := part.Partition(rows)

	payloads, err := partition.Serialize(result)
	if err != nil {
		return types.Summary{}, err
	}

	if !dryRun {
		if payloads.Valid != nil {
			if _, err := fm.WriteObject(validKey, payloads.Valid); err != nil {
				return types.Summary{}, err
			}
		}
		if payloads.Invalid != nil {
			if _, err := fm.WriteObject(invalidKey, payloads.Invalid); err != nil {
				return types.Summary{}, err
			}
		}
		if cfg.ArchiveProcessed {
			if _, err := fm.ArchiveInputFile(key); err != nil {
				return types.Summary{}, err
			}
		}
	}

	return types.Summary{
		RunID:         uuid.NewString(),
		LandingBucket: cfg.LandingDir,
		GreenBucket:   cfg.GreenZoneDir,
		InputKey:      key,
		ValidKey:      validKey,
		InvalidKey:    invalidKey,
		ValidCount:    result.ValidCount(),
		InvalidCount:  result.InvalidCount(),
	}, nil
}

// resolveBatchKeys decides which batches this run covers.
func resolveBatchKeys(cfg *config.Config, fm *utils.FileManager, logger *slog.Logger) ([]string, error) {
	switch {
	case batchKey != "" && eventPath != "":
		return nil, fmt.Errorf("--file and --event are mutually exclusive")

	case batchKey != "":
		return []string{batchKey}, nil

	case eventPath != "":
		payload, err := os.ReadFile(eventPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read event payload: %w", err)
		}
		bucket, key, err := event.Resolve(payload)
		if err != nil {
			return nil, err
		}
		// The event names its own landing bucket; it wins over the config.
		if bucket != "" && bucket != cfg.LandingDir {
			logger.Debug("event overrides landing zone", "bucket", bucket)
			fm.LandingDir = bucket
		}
		return []string{key}, nil

	default:
		return fm.DiscoverBatches()
	}
}

// loadSchema returns the rule table, preferring the configured XLSX template
// over the built-in schema.
func loadSchema(cfg *config.Config) (*schema.Schema, error) {
	if cfg.TemplatePath == "" {
		return schema.Default(), nil
	}

	s, err := schema.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema template: %w", err)
	}
	return s, nil
}
