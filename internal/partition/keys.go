// =============================================================================
// Card Transaction ETL - Output Key Derivation
// =============================================================================

package partition

import (
	"errors"
	"fmt"
	"strings"
)

// Suffixes of the batch input and the two derived outputs.
const (
	inputSuffix   = ".csv"
	validSuffix   = "_valid.jsonl"
	invalidSuffix = "_invalid.jsonl"
)

// ErrUnexpectedExtension reports an input key that does not end in ".csv".
// There is no meaningful partial result for such a batch, so the caller must
// treat it as a structural failure.
var ErrUnexpectedExtension = errors.New("unexpected input key extension")

// DeriveOutputKeys derives the valid and invalid output keys from the input
// key by stripping the ".csv" suffix and appending "_valid.jsonl" and
// "_invalid.jsonl". The path is kept as-is; only the suffix changes:
//
//	a/b/card_transaction_2025-11-10.csv
//	  -> a/b/card_transaction_2025-11-10_valid.jsonl
//	  -> a/b/card_transaction_2025-11-10_invalid.jsonl
//
// This is pure string manipulation, decoupled from where the key came from.
func DeriveOutputKeys(inputKey string) (validKey, invalidKey string, err error) {
	if !strings.HasSuffix(inputKey, inputSuffix) {
		return "", "", fmt.Errorf("%w: expected %s, got %q", ErrUnexpectedExtension, inputSuffix, inputKey)
	}

	base := strings.TrimSuffix(inputKey, inputSuffix)
	return base + validSuffix, base + invalidSuffix, nil
}
