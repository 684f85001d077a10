// =============================================================================
// Card Transaction ETL - Validation Schema
// =============================================================================
//
// This package defines the rule table that drives record validation. The
// rules are declarative data, not code: each field of the card-transaction
// record maps to a FieldRule describing its expected kind and constraints,
// and the validator evaluates the table without knowing anything about card
// transactions specifically. New fields and rules are additive.
//
// The built-in schema (Default) matches the daily batch contract. A schema
// can also be loaded from an XLSX template (see template.go), which lets the
// data team adjust enum sets or add columns without a code change.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"

	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
)

// FieldKind identifies the semantic type of a field.
type FieldKind string

const (
	// KindString is a free-text field. With Required set, the trimmed value
	// must be non-empty.
	KindString FieldKind = "string"

	// KindInteger is a base-10 integer field, optionally bounded below.
	KindInteger FieldKind = "integer"

	// KindEnum is a closed set of literal values, matched case-sensitively
	// with no normalization.
	KindEnum FieldKind = "enum"

	// KindTimestamp is an ISO-8601 timestamp that must carry an explicit
	// UTC offset.
	KindTimestamp FieldKind = "timestamp"
)

// FieldRule describes the validation rules for a single field.
type FieldRule struct {
	// Field is the CSV column name this rule applies to.
	Field string

	// Kind selects the predicate set used to check the raw value.
	Kind FieldKind

	// Required rejects empty or all-whitespace values for string fields.
	// Non-string kinds are always effectively required: their parsers
	// reject the empty string.
	Required bool

	// Enum lists the allowed literals for KindEnum fields.
	Enum []string

	// Min is the inclusive lower bound for KindInteger fields.
	// Only consulted when HasMin is true.
	Min    int64
	HasMin bool
}

// Schema is an ordered rule table. Order determines both validation order and
// the order of collected errors for a rejected row.
type Schema struct {
	rules []FieldRule
	index map[string]int
}

// New builds a Schema from an ordered rule list.
func New(rules []FieldRule) (*Schema, error) {
	s := &Schema{
		rules: rules,
		index: make(map[string]int, len(rules)),
	}
	for i, r := range rules {
		if strings.TrimSpace(r.Field) == "" {
			return nil, fmt.Errorf("rule %d: field name is empty", i+1)
		}
		if _, dup := s.index[r.Field]; dup {
			return nil, fmt.Errorf("duplicate rule for field %q", r.Field)
		}
		switch r.Kind {
		case KindString, KindInteger, KindTimestamp:
		case KindEnum:
			if len(r.Enum) == 0 {
				return nil, fmt.Errorf("field %q: enum rule has no allowed values", r.Field)
			}
		default:
			return nil, fmt.Errorf("field %q: unknown kind %q", r.Field, r.Kind)
		}
		s.index[r.Field] = i
	}
	return s, nil
}

// Default returns the built-in card-transaction schema.
func Default() *Schema {
	s, err := New([]FieldRule{
		{Field: types.FieldID, Kind: KindString, Required: true},
		{Field: types.FieldOrganizationID, Kind: KindString, Required: true},
		{Field: types.FieldAmount, Kind: KindInteger, Min: 0, HasMin: true},
		{Field: types.FieldCurrency, Kind: KindEnum, Enum: []string{"EUR", "USD", "GBP"}},
		{Field: types.FieldStatus, Kind: KindEnum, Enum: []string{"Success", "Error", "Pending"}},
		{Field: types.FieldCreatedAt, Kind: KindTimestamp},
	})
	if err != nil {
		// The built-in table is static; a construction error is a programming
		// mistake, not a runtime condition.
		panic(err)
	}
	return s
}

// Rules returns the rule table in validation order.
func (s *Schema) Rules() []FieldRule { return s.rules }

// Rule returns the rule for a field, or nil if the schema has none.
func (s *Schema) Rule(field string) *FieldRule {
	i, ok := s.index[field]
	if !ok {
		return nil
	}
	return &s.rules[i]
}

// Columns returns the field names in rule order. These are the columns the
// batch header must contain.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.rules))
	for i, r := range s.rules {
		cols[i] = r.Field
	}
	return cols
}
