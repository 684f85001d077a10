package partition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
	"github.com/greenzone-datalake/card-transaction-etl/internal/validator"
)

// row builds a raw row; a negative amount makes it invalid.
func row(id string, amount int) types.RawRow {
	return types.RawRow{
		"id":              id,
		"organization_id": "org1",
		"amount":          fmt.Sprintf("%d", amount),
		"currency":        "EUR",
		"status":          "Success",
		"created_at":      "2025-11-10T10:00:00+00:00",
	}
}

func TestPartitionCompletenessAndOrder(t *testing.T) {
	rows := []types.RawRow{
		row("a", 1),
		row("b", -1),
		row("c", 2),
		row("d", -2),
		row("e", 3),
	}

	result := New(validator.Default(), 1).Partition(rows)

	if result.Total() != len(rows) {
		t.Fatalf("total = %d, want %d", result.Total(), len(rows))
	}

	var validIDs []string
	for _, tx := range result.Valid {
		validIDs = append(validIDs, tx.ID)
	}
	if got := strings.Join(validIDs, ","); got != "a,c,e" {
		t.Fatalf("valid order = %s, want a,c,e", got)
	}

	var rejectedIDs []string
	for _, rej := range result.Rejected {
		rejectedIDs = append(rejectedIDs, rej.Row["id"])
	}
	if got := strings.Join(rejectedIDs, ","); got != "b,d" {
		t.Fatalf("rejected order = %s, want b,d", got)
	}
}

// TestPartitionConcurrentMatchesSequential verifies that the worker pool is a
// pure performance optimization: same sequences, same order.
func TestPartitionConcurrentMatchesSequential(t *testing.T) {
	var rows []types.RawRow
	for i := 0; i < 500; i++ {
		amount := i
		if i%3 == 0 {
			amount = -i - 1
		}
		rows = append(rows, row(fmt.Sprintf("row-%04d", i), amount))
	}

	sequential := New(validator.Default(), 1).Partition(rows)
	concurrent := New(validator.Default(), 8).Partition(rows)

	if sequential.ValidCount() != concurrent.ValidCount() ||
		sequential.InvalidCount() != concurrent.InvalidCount() {
		t.Fatalf("counts differ: seq %d/%d, conc %d/%d",
			sequential.ValidCount(), sequential.InvalidCount(),
			concurrent.ValidCount(), concurrent.InvalidCount())
	}
	for i := range sequential.Valid {
		if sequential.Valid[i].ID != concurrent.Valid[i].ID {
			t.Fatalf("valid[%d]: seq %s, conc %s", i, sequential.Valid[i].ID, concurrent.Valid[i].ID)
		}
	}
	for i := range sequential.Rejected {
		if sequential.Rejected[i].Row["id"] != concurrent.Rejected[i].Row["id"] {
			t.Fatalf("rejected[%d] differs", i)
		}
	}
}

func TestPartitionRejectedRowsKeepRawValues(t *testing.T) {
	raw := types.RawRow{
		"id":              "",
		"organization_id": "  org  ",
		"amount":          "abc",
		"currency":        "eur",
		"status":          "Done",
		"created_at":      "yesterday",
	}

	result := New(validator.Default(), 1).Partition([]types.RawRow{raw})
	if result.InvalidCount() != 1 {
		t.Fatalf("expected 1 rejected row, got %d", result.InvalidCount())
	}
	for k, v := range raw {
		if result.Rejected[0].Row[k] != v {
			t.Fatalf("rejected row[%s] = %q, want %q", k, result.Rejected[0].Row[k], v)
		}
	}
	if len(result.Rejected[0].Errors) == 0 {
		t.Fatalf("rejected row carries no errors")
	}
}

func TestSerializeJSONL(t *testing.T) {
	rows := []types.RawRow{row("a", 1), row("b", -1), row("c", 2)}
	result := New(validator.Default(), 1).Partition(rows)

	payloads, err := Serialize(result)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	validLines := bytes.Split(payloads.Valid, []byte("\n"))
	if len(validLines) != 2 {
		t.Fatalf("valid payload has %d lines, want 2", len(validLines))
	}
	var first types.CanonicalTransaction
	if err := json.Unmarshal(validLines[0], &first); err != nil {
		t.Fatalf("valid line is not JSON: %v", err)
	}
	if first.ID != "a" || first.Amount != 1 {
		t.Fatalf("unexpected first valid record: %+v", first)
	}
	if !strings.Contains(string(validLines[0]), `"created_at":"2025-11-10T10:00:00Z"`) {
		t.Fatalf("created_at not rendered with UTC offset: %s", validLines[0])
	}

	invalidLines := bytes.Split(payloads.Invalid, []byte("\n"))
	if len(invalidLines) != 1 {
		t.Fatalf("invalid payload has %d lines, want 1", len(invalidLines))
	}
	var rejected types.RejectedRow
	if err := json.Unmarshal(invalidLines[0], &rejected); err != nil {
		t.Fatalf("invalid line is not JSON: %v", err)
	}
	if rejected.Row["id"] != "b" || len(rejected.Errors) != 1 {
		t.Fatalf("unexpected rejected record: %+v", rejected)
	}
}

func TestSerializeIdempotent(t *testing.T) {
	rows := []types.RawRow{row("a", 1), row("b", -1)}
	result := New(validator.Default(), 1).Partition(rows)

	first, err := Serialize(result)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	second, err := Serialize(result)
	if err != nil {
		t.Fatalf("serialize again: %v", err)
	}

	if !bytes.Equal(first.Valid, second.Valid) {
		t.Fatalf("valid payload not byte-identical across serializations")
	}
	if !bytes.Equal(first.Invalid, second.Invalid) {
		t.Fatalf("invalid payload not byte-identical across serializations")
	}
}

func TestSerializeEmptySequencesAreAbsent(t *testing.T) {
	result := New(validator.Default(), 1).Partition(nil)
	if result.Total() != 0 {
		t.Fatalf("empty batch has %d rows", result.Total())
	}

	payloads, err := Serialize(result)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payloads.Valid != nil || payloads.Invalid != nil {
		t.Fatalf("empty sequences must serialize to absent payloads, got %q / %q",
			payloads.Valid, payloads.Invalid)
	}

	// One-sided batches leave the other payload absent too.
	allValid := New(validator.Default(), 1).Partition([]types.RawRow{row("a", 1)})
	payloads, err = Serialize(allValid)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payloads.Valid == nil || payloads.Invalid != nil {
		t.Fatalf("all-valid batch: valid present=%t invalid present=%t",
			payloads.Valid != nil, payloads.Invalid != nil)
	}
}

func TestDeriveOutputKeys(t *testing.T) {
	validKey, invalidKey, err := DeriveOutputKeys("a/b/card_transaction_2025-11-10.csv")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if validKey != "a/b/card_transaction_2025-11-10_valid.jsonl" {
		t.Fatalf("valid key = %s", validKey)
	}
	if invalidKey != "a/b/card_transaction_2025-11-10_invalid.jsonl" {
		t.Fatalf("invalid key = %s", invalidKey)
	}
}

func TestDeriveOutputKeysRejectsOtherExtensions(t *testing.T) {
	for _, key := range []string{"a/b/file.txt", "file.csv.gz", "no-extension"} {
		if _, _, err := DeriveOutputKeys(key); !errors.Is(err, ErrUnexpectedExtension) {
			t.Fatalf("key %q: err = %v, want ErrUnexpectedExtension", key, err)
		}
	}
}
