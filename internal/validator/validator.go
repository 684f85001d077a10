// =============================================================================
// Card Transaction ETL - Record Validator
// =============================================================================
//
// This module decides whether one raw batch row is acceptable. It applies the
// schema rule table field by field and either produces the canonical typed
// record or the full list of violations.
//
// VALIDATION STRATEGY:
//   - Every rule is evaluated; violations are collected, not short-circuited.
//     A rejected row reports one error per violated field, so a single pass
//     over the invalid output shows everything wrong with a row.
//   - The raw row is never mutated. Rejected rows keep their original string
//     values verbatim for audit.
//   - Validation is a pure function: no I/O, no shared state, deterministic.
//
// =============================================================================

package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/greenzone-datalake/card-transaction-etl/internal/schema"
	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
)

// Validator validates raw rows against a schema rule table.
type Validator struct {
	schema *schema.Schema
}

// New creates a Validator for the given schema.
func New(s *schema.Schema) *Validator {
	return &Validator{schema: s}
}

// Default creates a Validator for the built-in card-transaction schema.
func Default() *Validator {
	return New(schema.Default())
}

// Validate checks one raw row against every rule in the schema.
//
// On success it returns the canonical transaction and a nil error list. On
// failure it returns a nil transaction and one ErrorDetail per violated
// field, in schema order.
func (v *Validator) Validate(row types.RawRow) (*types.CanonicalTransaction, []types.ErrorDetail) {
	var errs []types.ErrorDetail

	// Typed values are collected as the rules pass so the canonical record
	// can be assembled without re-parsing.
	var (
		amount    int64
		createdAt time.Time
	)

	for _, rule := range v.schema.Rules() {
		value := row[rule.Field]

		switch rule.Kind {
		case schema.KindString:
			if rule.Required && strings.TrimSpace(value) == "" {
				errs = append(errs, types.ErrorDetail{
					Field:   rule.Field,
					Message: "must be a non-empty string",
					Kind:    types.KindEmpty,
				})
			}

		case schema.KindInteger:
			n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				errs = append(errs, types.ErrorDetail{
					Field:   rule.Field,
					Message: fmt.Sprintf("value %q is not a valid integer", value),
					Kind:    types.KindType,
				})
				continue
			}
			if rule.HasMin && n < rule.Min {
				errs = append(errs, types.ErrorDetail{
					Field:   rule.Field,
					Message: fmt.Sprintf("value %d is below the minimum of %d", n, rule.Min),
					Kind:    types.KindRange,
				})
				continue
			}
			if rule.Field == types.FieldAmount {
				amount = n
			}

		case schema.KindEnum:
			if !contains(rule.Enum, value) {
				errs = append(errs, types.ErrorDetail{
					Field:   rule.Field,
					Message: fmt.Sprintf("value %q is not one of [%s]", value, strings.Join(rule.Enum, ", ")),
					Kind:    types.KindEnum,
				})
			}

		case schema.KindTimestamp:
			t, detail := parseUTCTimestamp(rule.Field, value)
			if detail != nil {
				errs = append(errs, *detail)
				continue
			}
			if rule.Field == types.FieldCreatedAt {
				createdAt = t
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.CanonicalTransaction{
		ID:             row[types.FieldID],
		OrganizationID: row[types.FieldOrganizationID],
		Amount:         amount,
		Currency:       row[types.FieldCurrency],
		Status:         row[types.FieldStatus],
		CreatedAt:      createdAt,
	}, nil
}

// Reject wraps a row and its errors into a RejectedRow for the invalid
// output sequence.
func Reject(row types.RawRow, errs []types.ErrorDetail) types.RejectedRow {
	return types.RejectedRow{Row: row, Errors: errs}
}

// =============================================================================
// TIMESTAMP PARSING
// =============================================================================

// Layouts that carry an explicit numeric or Zulu offset.
var offsetLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
}

// Layouts with no timezone information at all. A match here means the
// timestamp is well-formed but missing its offset, which the contract
// rejects: the offset must be explicit and equal to UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseUTCTimestamp parses an ISO-8601 timestamp and enforces the explicit
// UTC offset requirement. It returns either the parsed time or one
// ErrorDetail describing the failure:
//
//   - not parseable at all            -> format
//   - parseable but no offset present -> timezone (missing)
//   - offset present but non-zero     -> timezone (not UTC)
func parseUTCTimestamp(field, value string) (time.Time, *types.ErrorDetail) {
	trimmed := strings.TrimSpace(value)

	for _, layout := range offsetLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		if _, offset := t.Zone(); offset != 0 {
			return time.Time{}, &types.ErrorDetail{
				Field:   field,
				Message: fmt.Sprintf("timestamp %q has a non-UTC offset", value),
				Kind:    types.KindTimezone,
			}
		}
		// Normalize the zone name so +00:00 and Z render identically.
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return time.Time{}, &types.ErrorDetail{
				Field:   field,
				Message: fmt.Sprintf("timestamp %q has no UTC offset; the offset must be explicit", value),
				Kind:    types.KindTimezone,
			}
		}
	}

	return time.Time{}, &types.ErrorDetail{
		Field:   field,
		Message: fmt.Sprintf("value %q is not a valid ISO-8601 timestamp", value),
		Kind:    types.KindFormat,
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
