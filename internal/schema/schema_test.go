package schema

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDefaultSchema(t *testing.T) {
	s := Default()

	cols := s.Columns()
	want := []string{"id", "organization_id", "amount", "currency", "status", "created_at"}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, name := range want {
		if cols[i] != name {
			t.Fatalf("column %d = %s, want %s", i, cols[i], name)
		}
	}

	amount := s.Rule("amount")
	if amount == nil || amount.Kind != KindInteger || !amount.HasMin || amount.Min != 0 {
		t.Fatalf("unexpected amount rule: %+v", amount)
	}

	currency := s.Rule("currency")
	if currency == nil || currency.Kind != KindEnum || len(currency.Enum) != 3 {
		t.Fatalf("unexpected currency rule: %+v", currency)
	}

	if s.Rule("nonexistent") != nil {
		t.Fatalf("rule lookup for unknown field must be nil")
	}
}

func TestNewRejectsBadTables(t *testing.T) {
	cases := []struct {
		name  string
		rules []FieldRule
	}{
		{"empty field name", []FieldRule{{Field: "", Kind: KindString}}},
		{"duplicate field", []FieldRule{
			{Field: "id", Kind: KindString},
			{Field: "id", Kind: KindString},
		}},
		{"enum without values", []FieldRule{{Field: "currency", Kind: KindEnum}}},
		{"unknown kind", []FieldRule{{Field: "x", Kind: FieldKind("blob")}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.rules); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

// writeTemplate builds a minimal XLSX rule-table template on disk.
func writeTemplate(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "schema.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save template: %v", err)
	}
	return path
}

func TestLoadTemplate(t *testing.T) {
	path := writeTemplate(t, [][]any{
		{"Field", "Type", "Required", "Allowed Values", "Min"},
		{"id", "string", "yes", "", ""},
		{"amount", "integer", "", "", "0"},
		{"currency", "", "", "EUR|USD", ""},
		{"created_at", "timestamp", "", "", ""},
	})

	s, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}

	if got := len(s.Rules()); got != 4 {
		t.Fatalf("got %d rules, want 4", got)
	}
	if r := s.Rule("id"); r == nil || r.Kind != KindString || !r.Required {
		t.Fatalf("unexpected id rule: %+v", r)
	}
	if r := s.Rule("amount"); r == nil || r.Kind != KindInteger || !r.HasMin || r.Min != 0 {
		t.Fatalf("unexpected amount rule: %+v", r)
	}
	// Type column left blank but values listed: inferred as enum.
	if r := s.Rule("currency"); r == nil || r.Kind != KindEnum || len(r.Enum) != 2 {
		t.Fatalf("unexpected currency rule: %+v", r)
	}
	if r := s.Rule("created_at"); r == nil || r.Kind != KindTimestamp {
		t.Fatalf("unexpected created_at rule: %+v", r)
	}
}

func TestLoadTemplateErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})

	t.Run("no rules", func(t *testing.T) {
		path := writeTemplate(t, [][]any{
			{"Field", "Type", "Required", "Allowed Values", "Min"},
		})
		if _, err := LoadTemplate(path); err == nil {
			t.Fatalf("expected error for template without rules")
		}
	})

	t.Run("bad minimum", func(t *testing.T) {
		path := writeTemplate(t, [][]any{
			{"Field", "Type", "Required", "Allowed Values", "Min"},
			{"amount", "integer", "", "", "lots"},
		})
		if _, err := LoadTemplate(path); err == nil {
			t.Fatalf("expected error for non-numeric minimum")
		}
	})
}
