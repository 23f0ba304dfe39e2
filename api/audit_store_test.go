package api

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuditStore(t *testing.T, store AuditStore) {
	t.Helper()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(AuditRecord{
			Event:      "login_success",
			RemoteAddr: "192.0.2.1:1000",
			CreatedAt:  "2026-08-29T10:00:0" + strconv.Itoa(i) + "Z",
			Detail:     map[string]string{"subject": "user-" + strconv.Itoa(i)},
		}))
	}

	records, err := store.List(3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Newest first.
	assert.Equal(t, "user-4", records[0].Detail["subject"])
	assert.Equal(t, "user-2", records[2].Detail["subject"])
	assert.NotEmpty(t, records[0].ID)

	records, err = store.List(100)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestMemoryAuditStore(t *testing.T) {
	testAuditStore(t, NewMemoryAuditStore())
}

func TestBoltAuditStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := NewBoltAuditStore(path)
	require.NoError(t, err)
	defer store.Close()

	testAuditStore(t, store)
}

func TestBoltAuditStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	store, err := NewBoltAuditStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(AuditRecord{Event: "logout"}))
	require.NoError(t, store.Close())

	store, err = NewBoltAuditStore(path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "logout", records[0].Event)
}
