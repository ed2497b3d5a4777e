package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogDecode(t *testing.T) {
	a, err := NewAuditLog(nil)
	require.NoError(t, err)

	// Small payloads are stored as-is.
	plain := []byte(`{"name":"North route"}`)
	got, err := a.Decode(&AuditEntry{Payload: plain, Compressed: false})
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	// Large payloads round-trip through zstd.
	big := bytes.Repeat([]byte(`{"carry":0,"recharge_1":12},`), 1024)
	require.Greater(t, len(big), compressThreshold)

	compressed := a.encoder.EncodeAll(big, nil)
	assert.Less(t, len(compressed), len(big))

	got, err = a.Decode(&AuditEntry{Payload: compressed, Compressed: true})
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestAuditLogDecode_CorruptPayload(t *testing.T) {
	a, err := NewAuditLog(nil)
	require.NoError(t, err)

	_, err = a.Decode(&AuditEntry{Payload: []byte("not zstd"), Compressed: true})
	require.Error(t, err)
}
