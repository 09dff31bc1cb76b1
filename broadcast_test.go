/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainOne(t *testing.T, client *Client) any {
	t.Helper()

	select {
	case msg := <-client.send:
		return msg
	default:
		t.Fatalf("expected a queued message for %q", client.id)
		return nil
	}
}

func TestBroadcastDeliversToAllMembers(t *testing.T) {
	reg := newRegistry()
	bc := newBroadcaster(reg)

	a := reg.Register("room", "a", nil)
	b := reg.Register("room", "b", nil)

	event := joinEvent("a", "User 1", reg.Members("room"))
	delivered, failed := bc.Broadcast("room", event)

	assert.Equal(t, 2, delivered)
	assert.Zero(t, failed)
	assert.Equal(t, event, drainOne(t, a))
	assert.Equal(t, event, drainOne(t, b))
}

func TestBroadcastUnknownRoomIsNoOp(t *testing.T) {
	reg := newRegistry()
	bc := newBroadcaster(reg)

	delivered, failed := bc.Broadcast("nowhere", HeartbeatAckEvent{Type: "heartbeat_ack"})

	assert.Zero(t, delivered)
	assert.Zero(t, failed)
}

func TestBroadcastPrunesFailingRecipient(t *testing.T) {
	reg := newRegistry()
	bc := newBroadcaster(reg)

	healthy := reg.Register("room", "healthy", nil)
	failing := reg.Register("room", "failing", nil)

	// Saturate the failing client's queue so the next delivery cannot be
	// accepted.
	for i := 0; i < sendQueueSize; i++ {
		failing.send <- struct{}{}
	}

	event := randomActionEvent("healthy", "User 1", "Coin Flip", "Heads")
	delivered, failed := bc.Broadcast("room", event)

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, failed)

	// The healthy recipient got the event, then a leave for the pruned one.
	assert.Equal(t, event, drainOne(t, healthy))
	leave, ok := drainOne(t, healthy).(LeaveEvent)
	require.True(t, ok)
	assert.Equal(t, "failing", leave.ClientID)
	assert.Equal(t, "User 2", leave.Username)
	require.Len(t, leave.Users, 1)
	assert.Equal(t, "healthy", leave.Users[0].ClientID)

	// The failing client is gone from the registry and from subsequent
	// broadcasts.
	_, found := reg.Lookup("room", "failing")
	assert.False(t, found)

	delivered, failed = bc.Broadcast("room", event)
	assert.Equal(t, 1, delivered)
	assert.Zero(t, failed)
}

func TestBroadcastToClosedClientCountsAsFailed(t *testing.T) {
	reg := newRegistry()
	bc := newBroadcaster(reg)

	healthy := reg.Register("room", "healthy", nil)
	closed := reg.Register("room", "closed", nil)
	closed.shutdown()

	delivered, failed := bc.Broadcast("room", joinEvent("healthy", "User 1", reg.Members("room")))

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, failed)

	_, found := reg.Lookup("room", "closed")
	assert.False(t, found)
	assert.NotNil(t, drainOne(t, healthy))
}
