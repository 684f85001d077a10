// =============================================================================
// Card Transaction ETL - Batch Partitioner
// =============================================================================
//
// This module splits one batch of raw rows into the valid and invalid output
// sequences. Each row is routed through the record validator; valid rows are
// collected as canonical transactions, rejected rows as row+errors pairs.
//
// INVARIANTS:
//   - Every input row appears in exactly one of the two output sequences;
//     nothing is dropped silently.
//   - Both sequences preserve the relative order of their source rows as they
//     appeared in the input. Rows validate independently, so the work may be
//     spread across workers, but results are re-sorted into input order
//     before accumulation.
//   - The partitioner holds no state across calls: whole batch in, whole
//     result out.
//
// =============================================================================

package partition

import (
	"sync"

	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
	"github.com/greenzone-datalake/card-transaction-etl/internal/validator"
)

// Partitioner runs the record validator over a batch of rows.
type Partitioner struct {
	validator *validator.Validator
	workers   int
}

// New creates a Partitioner. workers caps the number of rows validated
// concurrently; values below 2 select the sequential path.
func New(v *validator.Validator, workers int) *Partitioner {
	return &Partitioner{validator: v, workers: workers}
}

// rowOutcome is the result of validating one row. Outcomes live in a slice
// indexed by input position, which is what keeps the output ordered.
type rowOutcome struct {
	tx   *types.CanonicalTransaction
	errs []types.ErrorDetail
}

// Partition validates every row and returns the ordered batch result.
func (p *Partitioner) Partition(rows []types.RawRow) *types.BatchResult {
	var outcomes []rowOutcome
	if p.workers > 1 && len(rows) > 1 {
		outcomes = p.validateConcurrently(rows)
	} else {
		outcomes = p.validateSequentially(rows)
	}

	result := &types.BatchResult{}
	for i, out := range outcomes {
		if out.tx != nil {
			result.Valid = append(result.Valid, *out.tx)
		} else {
			result.Rejected = append(result.Rejected, validator.Reject(rows[i], out.errs))
		}
	}
	return result
}

func (p *Partitioner) validateSequentially(rows []types.RawRow) []rowOutcome {
	outcomes := make([]rowOutcome, len(rows))
	for i, row := range rows {
		tx, errs := p.validator.Validate(row)
		outcomes[i] = rowOutcome{tx: tx, errs: errs}
	}
	return outcomes
}

// validateConcurrently fans the rows out over a bounded worker pool. The
// outcomes slice is indexed by input position, so writes from different
// workers never overlap and the result reads back in input order.
func (p *Partitioner) validateConcurrently(rows []types.RawRow) []rowOutcome {
	outcomes := make([]rowOutcome, len(rows))
	indexes := make(chan int, len(rows))

	workers := p.workers
	if workers > len(rows) {
		workers = len(rows)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				tx, errs := p.validator.Validate(rows[i])
				outcomes[i] = rowOutcome{tx: tx, errs: errs}
			}
		}()
	}

	for i := range rows {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return outcomes
}
