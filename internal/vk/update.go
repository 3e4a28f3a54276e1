package vk

import (
	"encoding/json"
	"fmt"
)

type UpdateType string

const (
	UpdateMessageNew UpdateType = "message_new"
	UpdateGroupJoin  UpdateType = "group_join"
	UpdateGroupLeave UpdateType = "group_leave"
)

// Message is the inbound message object of a message_new update.
type Message struct {
	ID     int64  `json:"id"`
	Date   int64  `json:"date"`
	FromID int64  `json:"from_id"`
	PeerID int64  `json:"peer_id"`
	Text   string `json:"text"`

	Attachments []json.RawMessage `json:"attachments"`
}

// MembershipEvent is the object of group_join / group_leave updates.
type MembershipEvent struct {
	UserID int64 `json:"user_id"`
	// Self is set on group_leave when the user left on their own
	// rather than being removed.
	Self int `json:"self"`
}

// Update is a single long-poll event. Exactly one of Message and
// Membership is populated, depending on Type.
type Update struct {
	Type       UpdateType
	Message    *Message
	Membership *MembershipEvent
}

type rawUpdate struct {
	Type   UpdateType      `json:"type"`
	Object json.RawMessage `json:"object"`
}

// ParseUpdates decodes the "updates" array of a long-poll response.
// Updates of unrecognized types are dropped.
func ParseUpdates(data []byte) ([]Update, error) {
	var raws []rawUpdate

	err := json.Unmarshal(data, &raws)
	if err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}

	updates := make([]Update, 0, len(raws))

	for _, r := range raws {
		switch r.Type {
		case UpdateMessageNew:
			msg := new(Message)

			err := json.Unmarshal(r.Object, msg)
			if err != nil {
				return nil, fmt.Errorf("decode message object: %w", err)
			}

			updates = append(updates, Update{Type: r.Type, Message: msg})

		case UpdateGroupJoin, UpdateGroupLeave:
			ev := new(MembershipEvent)

			err := json.Unmarshal(r.Object, ev)
			if err != nil {
				return nil, fmt.Errorf("decode membership object: %w", err)
			}

			updates = append(updates, Update{Type: r.Type, Membership: ev})
		}
	}

	return updates, nil
}
