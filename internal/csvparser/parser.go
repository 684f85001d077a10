// =============================================================================
// Card Transaction ETL - Batch CSV Parser
// =============================================================================
//
// This module decodes one raw batch object into the ordered row sequence the
// partitioner consumes. It is deliberately strict about structure:
//   - the bytes must be valid UTF-8,
//   - the first line must be a header naming every schema column,
// and deliberately lenient about content: cell values pass through verbatim,
// with no trimming or coercion, because rejected rows must reach the invalid
// output exactly as they arrived.
//
// Structural problems are fatal to the whole batch and surface as
// distinguishable sentinel errors; per-row problems are not this module's
// concern — every well-formed line becomes a RawRow regardless of content.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
)

// ErrDecode reports input bytes that are not valid UTF-8 text.
var ErrDecode = errors.New("input is not valid UTF-8")

// ErrSchemaHeader reports a header row that is missing required columns.
var ErrSchemaHeader = errors.New("input header is missing required columns")

// Parse decodes a batch payload into its ordered row sequence.
//
// The returned slice holds one RawRow per data line, in file order. Fully
// empty lines are skipped; short lines pad their missing columns with "".
// Columns beyond the required set are carried through untouched so rejected
// rows stay complete for audit.
func Parse(data []byte, columns []string) ([]types.RawRow, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w (%d bytes)", ErrDecode, len(data))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	// Rows with a deviating field count are padded or truncated below rather
	// than rejected wholesale.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: input has no header row", ErrSchemaHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Header names are trimmed once up front; they become the row map keys,
	// so " id " in the header still feeds the "id" rule.
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if err := checkHeader(header, columns); err != nil {
		return nil, err
	}

	var rows []types.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		if isRecordEmpty(record) {
			continue
		}

		row := make(types.RawRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// checkHeader verifies that every required column is present; column order
// does not matter.
func checkHeader(header, columns []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}

	var missing []string
	for _, name := range columns {
		if !present[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaHeader, strings.Join(missing, ", "))
	}
	return nil
}

// isRecordEmpty reports whether a CSV record contains only blank cells.
func isRecordEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
