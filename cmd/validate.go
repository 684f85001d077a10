// =============================================================================
// Card Transaction ETL - Validate Command
// =============================================================================
//
// The 'validate' command checks the configuration and the schema rule table
// without touching any batch data. It is meant for deploy-time sanity checks:
// a broken XLSX template fails here instead of at 3am when the daily file
// lands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenzone-datalake/card-transaction-etl/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and schema without processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration check failed: %w", err)
	}

	fmt.Println("Configuration OK")
	fmt.Printf("  Landing zone:    %s\n", cfg.LandingDir)
	fmt.Printf("  Green zone:      %s\n", cfg.GreenZoneDir)
	fmt.Printf("  Archive:         %s (enabled: %t)\n", cfg.ArchiveDir, cfg.ArchiveProcessed)
	fmt.Printf("  Max concurrency: %d\n", cfg.MaxConcurrency)
	if cfg.Kafka.Enabled() {
		fmt.Printf("  Summary topic:   %s via %s\n", cfg.Kafka.Topic, strings.Join(cfg.Kafka.Brokers, ","))
	}

	rules, err := loadSchema(cfg)
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	source := "built-in"
	if cfg.TemplatePath != "" {
		source = cfg.TemplatePath
	}
	fmt.Printf("\nSchema OK (%s)\n", source)
	for _, rule := range rules.Rules() {
		var details []string
		if rule.Required {
			details = append(details, "required")
		}
		if len(rule.Enum) > 0 {
			details = append(details, "one of "+strings.Join(rule.Enum, "|"))
		}
		if rule.HasMin {
			details = append(details, fmt.Sprintf("min %d", rule.Min))
		}
		suffix := ""
		if len(details) > 0 {
			suffix = " (" + strings.Join(details, ", ") + ")"
		}
		fmt.Printf("  %-16s %s%s\n", rule.Field, rule.Kind, suffix)
	}

	return nil
}
