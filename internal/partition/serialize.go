// =============================================================================
// Card Transaction ETL - Output Serialization
// =============================================================================
//
// The two output sequences serialize to newline-delimited JSON: one object
// per line, in accumulation order, UTF-8, no trailing newline. Serialization
// is deterministic — the same batch result always produces byte-identical
// payloads — because the valid object's field order is fixed by the struct
// definition and map keys in rejected rows marshal sorted.
//
// An empty sequence serializes to an absent (nil) payload rather than an
// empty one, so callers never emit zero-row output files. The counts on the
// batch result tell the caller whether there is anything to write.
//
// =============================================================================

package partition

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
)

// Payloads holds the serialized outputs of one batch. A nil payload means
// the corresponding sequence was empty and no object should be written.
type Payloads struct {
	Valid   []byte
	Invalid []byte
}

// Serialize renders both output sequences of a batch result as JSONL.
func Serialize(result *types.BatchResult) (Payloads, error) {
	var payloads Payloads

	if len(result.Valid) > 0 {
		lines := make([]any, len(result.Valid))
		for i := range result.Valid {
			lines[i] = &result.Valid[i]
		}
		data, err := marshalLines(lines)
		if err != nil {
			return Payloads{}, fmt.Errorf("serializing valid records: %w", err)
		}
		payloads.Valid = data
	}

	if len(result.Rejected) > 0 {
		lines := make([]any, len(result.Rejected))
		for i := range result.Rejected {
			lines[i] = &result.Rejected[i]
		}
		data, err := marshalLines(lines)
		if err != nil {
			return Payloads{}, fmt.Errorf("serializing rejected rows: %w", err)
		}
		payloads.Invalid = data
	}

	return payloads, nil
}

// marshalLines renders one JSON object per line, joined by "\n".
func marshalLines(lines []any) ([]byte, error) {
	var buf bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		data, err := json.Marshal(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
