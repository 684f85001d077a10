// =============================================================================
// Card Transaction ETL - Invocation Event Adapter
// =============================================================================
//
// The pipeline can be invoked two ways:
//
//  1. Directly, by the scheduler or by hand:
//     {"bucket": "landing-zone", "key": "a/b/card_transaction_2025-11-10.csv"}
//
//  2. Via a storage notification envelope:
//     {"Records": [{"s3": {"bucket": {"name": ...}, "object": {"key": ...}}}]}
//
// This adapter normalizes both shapes to a (bucket, key) pair before any data
// is touched, so the rest of the pipeline never sees the envelope.
//
// =============================================================================

package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnrecognized reports a payload matching neither invocation shape.
var ErrUnrecognized = errors.New("cannot determine bucket and key from event")

type directEvent struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type notificationEvent struct {
	Records []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// Resolve extracts the (bucket, key) pair from an invocation payload.
func Resolve(payload []byte) (bucket, key string, err error) {
	var direct directEvent
	if err := json.Unmarshal(payload, &direct); err != nil {
		return "", "", fmt.Errorf("invalid event payload: %w", err)
	}
	if direct.Bucket != "" && direct.Key != "" {
		return direct.Bucket, direct.Key, nil
	}

	var notification notificationEvent
	if err := json.Unmarshal(payload, &notification); err != nil {
		return "", "", fmt.Errorf("invalid event payload: %w", err)
	}
	if len(notification.Records) > 0 {
		rec := notification.Records[0]
		if rec.S3.Bucket.Name != "" && rec.S3.Object.Key != "" {
			return rec.S3.Bucket.Name, rec.S3.Object.Key, nil
		}
	}

	return "", "", ErrUnrecognized
}
