package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-signup/pkg/field"
)

// DefaultRecordKey is the slot holding the last successful submission.
const DefaultRecordKey = "newsletter.last-submission"

// Record is a decoded last-submission record.
type Record map[string]string

// SaveRecord serializes payload and overwrites key.
func SaveRecord(ctx context.Context, s Store, key string, payload field.Payload) error {
	if s == nil {
		return errors.New("store: store is required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("store: encode record: %w", err)
	}
	return s.Put(ctx, key, data)
}

// LoadRecord reads and decodes key. Missing keys return ErrNotFound; values
// that are not a JSON object return ErrMalformedRecord. Non-string members of
// an otherwise valid object are skipped.
func LoadRecord(ctx context.Context, s Store, key string) (Record, error) {
	if s == nil {
		return nil, errors.New("store: store is required")
	}
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("record is null")
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	rec := make(Record, len(raw))
	for k, v := range raw {
		var value string
		if err := json.Unmarshal(v, &value); err != nil {
			continue
		}
		rec[k] = value
	}
	return rec, nil
}
