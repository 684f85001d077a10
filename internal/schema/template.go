// =============================================================================
// Card Transaction ETL - XLSX Schema Templates
// =============================================================================
//
// The rule table can be maintained outside the binary as an XLSX template.
// The template's first sheet is expected to look like:
//
//   | Field           | Type      | Required | Allowed Values      | Min |
//   |-----------------|-----------|----------|---------------------|-----|
//   | id              | string    | yes      |                     |     |
//   | amount          | integer   |          |                     | 0   |
//   | currency        | enum      |          | EUR|USD|GBP         |     |
//   | created_at      | timestamp |          |                     |     |
//
// The first row is a header and is skipped. Enum values are separated by "|".
// Rows with an empty field name are ignored.
//
// =============================================================================

package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Template column positions, 0-based.
const (
	colField = iota
	colType
	colRequired
	colEnum
	colMin
)

// LoadTemplate reads a rule table from an XLSX template file.
func LoadTemplate(path string) (*Schema, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("template file has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read template rows: %w", err)
	}

	var rules []FieldRule
	for i, row := range rows {
		// Skip the header row and rows with no field name.
		if i == 0 || isRowEmpty(row) {
			continue
		}

		rule, err := parseTemplateRow(row)
		if err != nil {
			return nil, fmt.Errorf("template row %d: %w", i+1, err)
		}
		if rule.Field == "" {
			continue
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("template %s defines no field rules", path)
	}

	return New(rules)
}

// parseTemplateRow converts one template row into a FieldRule.
func parseTemplateRow(row []string) (FieldRule, error) {
	rule := FieldRule{
		Field: strings.TrimSpace(cell(row, colField)),
		Kind:  normalizeKind(cell(row, colType)),
	}

	switch strings.ToLower(strings.TrimSpace(cell(row, colRequired))) {
	case "yes", "y", "true", "required", "1":
		rule.Required = true
	}

	if enum := strings.TrimSpace(cell(row, colEnum)); enum != "" {
		for _, v := range strings.Split(enum, "|") {
			v = strings.TrimSpace(v)
			if v != "" {
				rule.Enum = append(rule.Enum, v)
			}
		}
	}

	if minStr := strings.TrimSpace(cell(row, colMin)); minStr != "" {
		min, err := strconv.ParseInt(minStr, 10, 64)
		if err != nil {
			return rule, fmt.Errorf("invalid minimum %q for field %q", minStr, rule.Field)
		}
		rule.Min = min
		rule.HasMin = true
	}

	// A row that lists allowed values but no explicit type is an enum.
	if rule.Kind == "" && len(rule.Enum) > 0 {
		rule.Kind = KindEnum
	}
	if rule.Kind == "" {
		rule.Kind = KindString
	}

	return rule, nil
}

// normalizeKind maps the loosely-typed template cell onto a FieldKind.
func normalizeKind(value string) FieldKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "string", "text":
		return KindString
	case "integer", "int", "numeric":
		return KindInteger
	case "enum", "literal":
		return KindEnum
	case "timestamp", "datetime", "date":
		return KindTimestamp
	case "":
		return ""
	default:
		return KindString
	}
}

// cell safely reads a cell by position; missing trailing cells read as "".
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// isRowEmpty reports whether every cell in the row is blank.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
