/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"time"
)

// Outbound events. Every event carries a "type" discriminator; join, leave
// and name_change additionally carry a full membership snapshot.

type JoinEvent struct {
	Type     string   `json:"type"` // "join"
	ClientID string   `json:"client_id"`
	Username string   `json:"username"`
	Users    []Member `json:"users"`
}

type LeaveEvent struct {
	Type     string   `json:"type"` // "leave"
	ClientID string   `json:"client_id"`
	Username string   `json:"username"`
	Users    []Member `json:"users"`
}

type NameChangeEvent struct {
	Type     string   `json:"type"` // "name_change"
	ClientID string   `json:"client_id"`
	OldName  string   `json:"old_name"`
	NewName  string   `json:"new_name"`
	Users    []Member `json:"users"`
}

type RandomActionEvent struct {
	Type      string    `json:"type"` // "random_action"
	ClientID  string    `json:"client_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

type ParameterUpdateEvent struct {
	Type       string     `json:"type"` // "parameter_update"
	Parameters RoomParams `json:"parameters"`
	Timestamp  time.Time  `json:"timestamp"`
}

type HeartbeatAckEvent struct {
	Type string `json:"type"` // "heartbeat_ack"
}

func joinEvent(clientID, username string, users []Member) JoinEvent {
	return JoinEvent{Type: "join", ClientID: clientID, Username: username, Users: users}
}

func leaveEvent(clientID, username string, users []Member) LeaveEvent {
	return LeaveEvent{Type: "leave", ClientID: clientID, Username: username, Users: users}
}

func nameChangeEvent(clientID, oldName, newName string, users []Member) NameChangeEvent {
	return NameChangeEvent{Type: "name_change", ClientID: clientID, OldName: oldName, NewName: newName, Users: users}
}

func randomActionEvent(clientID, username, action, result string) RandomActionEvent {
	return RandomActionEvent{
		Type:      "random_action",
		ClientID:  clientID,
		Username:  username,
		Action:    action,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}
}

func parameterUpdateEvent(params RoomParams) ParameterUpdateEvent {
	return ParameterUpdateEvent{Type: "parameter_update", Parameters: params, Timestamp: time.Now().UTC()}
}

// Broadcaster fans events out to every live client of a room.
type Broadcaster struct {
	reg *Registry
}

func newBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{reg: reg}
}

// Broadcast attempts delivery to every client currently registered under
// roomID. Each delivery is independent: a recipient whose queue cannot
// accept the event is treated as disconnected, pruned from the registry,
// and its own leave event goes out to the survivors only. An unknown room
// is a no-op. Returns delivered and failed counts for the initial event.
func (bc *Broadcaster) Broadcast(roomID string, event any) (delivered, failed int) {
	var dead []*Client

	for _, client := range bc.reg.clients(roomID) {
		if client.trySend(event) {
			delivered++
		} else {
			failed++
			dead = append(dead, client)
		}
	}

	broadcastEvents.WithLabelValues("delivered").Add(float64(delivered))
	broadcastEvents.WithLabelValues("failed").Add(float64(failed))

	// Prune dead recipients iteratively. Each one is deregistered before
	// its leave event is sent, so it is never delivered to again and the
	// chain terminates once the membership stops shrinking.
	for len(dead) > 0 {
		client := dead[0]
		dead = dead[1:]

		name, ok := bc.reg.release(roomID, client)
		client.shutdown()
		if !ok {
			continue
		}

		leave := leaveEvent(client.id, name, bc.reg.Members(roomID))
		for _, peer := range bc.reg.clients(roomID) {
			if !peer.trySend(leave) {
				dead = append(dead, peer)
			}
		}
	}

	return delivered, failed
}
