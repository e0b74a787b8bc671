package domain

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	ticket := &Ticket{}
	assert.True(t, ticket.Open())
	assert.Equal(t, "open", ticket.StatusString(time.UTC))

	closedAt := time.Date(2026, 3, 15, 14, 30, 5, 0, time.UTC)
	ticket.ClosedAt = &closedAt
	assert.False(t, ticket.Open())
	assert.Equal(t, "Closed: 2026-03-15 14:30:05", ticket.StatusString(time.UTC))
}

func TestNewRecordID(t *testing.T) {
	id := NewRecordID()
	value, err := strconv.ParseInt(id, 10, 64)
	require.NoError(t, err)
	assert.Greater(t, value, int64(0))

	time.Sleep(time.Millisecond)
	assert.NotEqual(t, id, NewRecordID())
}

func TestToggleFlag(t *testing.T) {
	req := &StudentRequest{}

	assert.True(t, req.ToggleFlag("computer_created"))
	assert.True(t, req.ComputerCreated)
	assert.True(t, req.ToggleFlag("computer_created"))
	assert.False(t, req.ComputerCreated)

	assert.False(t, req.ToggleFlag("locker_created"))
	assert.False(t, req.EmailCreated)
	assert.False(t, req.BagCreated)
	assert.False(t, req.IDCardCreated)
	assert.False(t, req.AzureCreated)
}

func TestToggleFlagCoversAllFields(t *testing.T) {
	req := &StudentRequest{}
	for _, field := range StudentProvisioningFields {
		assert.True(t, req.ToggleFlag(field), field)
	}
	assert.True(t, req.EmailCreated)
	assert.True(t, req.ComputerCreated)
	assert.True(t, req.BagCreated)
	assert.True(t, req.IDCardCreated)
	assert.True(t, req.AzureCreated)
}
