// =============================================================================
// Card Transaction ETL - Shared Types
// =============================================================================
//
// This package contains the data model shared across the pipeline modules.
// Types defined here are used by:
//   - csvparser
//   - validator
//   - partition
//   - notify
//
// Keeping them in one leaf package avoids import cycles between the modules.
//
// =============================================================================

package types

import "time"

// =============================================================================
// SCHEMA FIELD NAMES
// =============================================================================

// Field names of the card-transaction record, exactly as they appear in the
// CSV header of the daily batch file.
const (
	FieldID             = "id"
	FieldOrganizationID = "organization_id"
	FieldAmount         = "amount"
	FieldCurrency       = "currency"
	FieldStatus         = "status"
	FieldCreatedAt      = "created_at"
)

// Columns lists the required CSV columns in canonical order.
var Columns = []string{
	FieldID,
	FieldOrganizationID,
	FieldAmount,
	FieldCurrency,
	FieldStatus,
	FieldCreatedAt,
}

// =============================================================================
// RAW AND CANONICAL RECORDS
// =============================================================================

// RawRow is one untyped record read from the input batch: a mapping from
// column header to the verbatim cell value. The reader owns it; the validator
// never mutates it, so a rejected row can be written back out for audit
// exactly as it arrived.
type RawRow map[string]string

// Clone returns a copy of the row. Useful when a caller needs to hold on to a
// row beyond the lifetime of the batch it came from.
func (r RawRow) Clone() RawRow {
	out := make(RawRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CanonicalTransaction is the fully-typed, validated representation of one
// card transaction. A value of this type exists only if every field passed
// its validation rule; partial validity is not representable.
//
// CreatedAt marshals as an RFC 3339 string with an explicit UTC offset.
type CanonicalTransaction struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// Error kinds reported by the record validator.
const (
	KindEmpty    = "empty"    // required string field is empty or whitespace
	KindType     = "type"     // value cannot be parsed into the expected type
	KindRange    = "range"    // parsed value is outside the allowed range
	KindEnum     = "enum"     // value is not one of the allowed literals
	KindFormat   = "format"   // timestamp is not parseable as ISO-8601
	KindTimezone = "timezone" // timestamp offset is missing or not UTC
)

// ErrorDetail is a single structured description of why one field failed
// validation. A rejected row carries one entry per violated rule.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// RejectedRow pairs the original raw row with the full list of validation
// errors. The raw values are preserved verbatim, with no coercion.
type RejectedRow struct {
	Row    RawRow        `json:"row"`
	Errors []ErrorDetail `json:"errors"`
}

// =============================================================================
// BATCH RESULT
// =============================================================================

// BatchResult is the outcome of partitioning one batch: the ordered sequence
// of valid canonical transactions and the ordered sequence of rejected rows.
// Both sequences preserve the relative order of their source rows as they
// appeared in the input file.
type BatchResult struct {
	Valid    []CanonicalTransaction
	Rejected []RejectedRow
}

// ValidCount returns the number of valid records in the batch.
func (r *BatchResult) ValidCount() int { return len(r.Valid) }

// InvalidCount returns the number of rejected rows in the batch.
func (r *BatchResult) InvalidCount() int { return len(r.Rejected) }

// Total returns the number of input rows the batch was built from. Every
// input row lands in exactly one of the two sequences.
func (r *BatchResult) Total() int { return len(r.Valid) + len(r.Rejected) }

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// Summary describes the outcome of processing one batch. It is returned to
// the caller for logging and downstream decisions and, when configured,
// published to the summary topic. The pipeline does not interpret it further.
type Summary struct {
	RunID         string `json:"run_id"`
	LandingBucket string `json:"landing_bucket"`
	GreenBucket   string `json:"green_bucket"`
	InputKey      string `json:"input_key"`
	ValidKey      string `json:"valid_key"`
	InvalidKey    string `json:"invalid_key"`
	ValidCount    int    `json:"valid_count"`
	InvalidCount  int    `json:"invalid_count"`
}
