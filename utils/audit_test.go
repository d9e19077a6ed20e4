package utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAuditLoggerKeepsLatestEntries(t *testing.T) {
	logger := &MemoryAuditLogger{Capacity: 3}
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		entity := "product"
		if i%2 == 0 {
			entity = "order"
		}
		require.NoError(t, logger.Record(ctx, AuditEntry{Actor: "admin:ops@example.com", Action: fmt.Sprintf("a%d", i), Entity: entity}))
	}

	entries := logger.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a3", entries[0].Action)
	assert.Equal(t, "a5", entries[2].Action)

	recent, err := logger.Recent(ctx, "product", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "a5", recent[0].Action)
	assert.Equal(t, "a3", recent[1].Action)

	recent, err = logger.Recent(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "a5", recent[0].Action)
}

func TestRecordAuditStampsTime(t *testing.T) {
	previous := Audit
	logger := &MemoryAuditLogger{}
	Audit = logger
	t.Cleanup(func() { Audit = previous })

	RecordAudit(context.Background(), AuditEntry{Actor: "user:1", Action: "verify_payment", Entity: "order", EntityIDs: []uint{1}})

	entries := logger.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].CreatedAt.IsZero())
}
