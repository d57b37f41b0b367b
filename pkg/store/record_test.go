package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-signup/pkg/field"
)

func TestRecord_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	payload := field.Payload{
		{Key: "name", Value: "Ana Lopez"},
		{Key: "city", Value: "Rio"},
	}
	require.NoError(t, SaveRecord(ctx, s, DefaultRecordKey, payload))

	raw, err := s.Get(ctx, DefaultRecordKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Ana Lopez","city":"Rio"}`, string(raw))

	rec, err := LoadRecord(ctx, s, DefaultRecordKey)
	require.NoError(t, err)
	require.Equal(t, Record{"name": "Ana Lopez", "city": "Rio"}, rec)
}

func TestRecord_LoadMissing(t *testing.T) {
	_, err := LoadRecord(context.Background(), NewMemoryStore(), DefaultRecordKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecord_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{broken", "null", `["a"]`, `"text"`} {
		s := NewMemoryStore()
		require.NoError(t, s.Put(ctx, DefaultRecordKey, []byte(raw)))

		_, err := LoadRecord(ctx, s, DefaultRecordKey)
		require.ErrorIs(t, err, ErrMalformedRecord, "raw=%s", raw)
	}
}

func TestRecord_SkipsNonStringMembers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, DefaultRecordKey, []byte(`{"name":"Ana Lopez","age":30}`)))

	rec, err := LoadRecord(ctx, s, DefaultRecordKey)
	require.NoError(t, err)
	require.Equal(t, Record{"name": "Ana Lopez"}, rec)
}
