package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users
type Message struct {
	ID        string    `json:"_id"`
	Sender    User      `json:"sender"`
	Recipient User      `json:"recipient"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is either a thread the backend knows about or a local
// placeholder for a thread that starts with the first message.
type Conversation interface {
	Peer() User
	isConversation()
}

// PersistedConversation is a backend-issued thread. Only its ID may be sent
// to the backend.
type PersistedConversation struct {
	ID          string    `json:"_id"`
	OtherUser   User      `json:"otherUser"`
	LastMessage *Message  `json:"lastMessage,omitempty"`
	UnreadCount int       `json:"unreadCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Peer returns the other participant
func (c *PersistedConversation) Peer() User { return c.OtherUser }

func (*PersistedConversation) isConversation() {}

// PendingConversation exists only in this client until the first message is
// sent.
type PendingConversation struct {
	LocalKey  uuid.UUID
	OtherUser User
	StartedAt time.Time
}

// NewPendingConversation creates a placeholder thread with other
func NewPendingConversation(other User, now time.Time) *PendingConversation {
	return &PendingConversation{
		LocalKey:  uuid.New(),
		OtherUser: other,
		StartedAt: now,
	}
}

// Peer returns the other participant
func (c *PendingConversation) Peer() User { return c.OtherUser }

func (*PendingConversation) isConversation() {}

// FindConversationWith returns the listed conversation whose other
// participant is userID.
func FindConversationWith(list []PersistedConversation, userID string) (*PersistedConversation, bool) {
	for i := range list {
		if list[i].OtherUser.ID == userID {
			c := list[i]
			return &c, true
		}
	}
	return nil, false
}

// FindConversation returns the listed conversation with the given id
func FindConversation(list []PersistedConversation, id string) (*PersistedConversation, bool) {
	for i := range list {
		if list[i].ID == id {
			c := list[i]
			return &c, true
		}
	}
	return nil, false
}

// TotalUnread sums unread counts across conversations
func TotalUnread(list []PersistedConversation) int {
	total := 0
	for _, c := range list {
		total += c.UnreadCount
	}
	return total
}
