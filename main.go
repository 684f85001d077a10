// =============================================================================
// Card Transaction ETL - Main Entry Point
// =============================================================================
//
// USAGE:
//   card-etl process       - Validate and partition pending batches
//   card-etl validate      - Check configuration and schema without processing
//   card-etl version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : core business logic (validator, partitioner, parsers)
//   - pkg/        : shared utilities (file manager)
//
// =============================================================================

package main

import (
	"github.com/greenzone-datalake/card-transaction-etl/cmd"
)

func main() {
	cmd.Execute()
}
