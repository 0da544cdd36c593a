package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlotsMissingKey(t *testing.T) {
	slots := NewMemorySlots()

	value, ok, err := slots.Load(context.Background(), "zen_tickets")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestMemorySlotsSaveCopiesValue(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlots()
	payload := []byte(`[{"id":"T-1"}]`)

	require.NoError(t, slots.Save(ctx, "zen_tickets", payload))
	payload[0] = 'x'

	value, ok, err := slots.Load(ctx, "zen_tickets")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"T-1"}]`, string(value))
	assert.ElementsMatch(t, []string{"zen_tickets"}, slots.Keys())
}

func TestRedisSlotsRequiresClient(t *testing.T) {
	_, err := NewRedisSlots(nil)
	assert.Error(t, err)
}

func TestPostgresSlotsRequiresPool(t *testing.T) {
	_, err := NewPostgresSlots(&Postgres{})
	assert.Error(t, err)
}
