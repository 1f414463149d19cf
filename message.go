package tubechat

import (
	"context"
	"time"
)

// Role identifies the author of a chat message.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of a conversation about a video.
type Message struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the message contains invalid fields.
func (m *Message) Validate() error {
	if m.VideoID == "" {
		return Errorf(EINVALID, "message video ID required")
	}
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return Errorf(EINVALID, "invalid message role %q", m.Role)
	}
	if m.Content == "" {
		return Errorf(EINVALID, "message content required")
	}
	return nil
}

// ConversationService represents a service for managing chat history.
type ConversationService interface {
	// AppendMessages stores messages in order. Either all messages are
	// stored or none are.
	AppendMessages(ctx context.Context, msgs ...*Message) error

	// FindMessages retrieves messages matching the filter, oldest first.
	FindMessages(ctx context.Context, filter MessageFilter) ([]*Message, error)

	// DeleteMessages removes the conversation for a video.
	// Returns the number of deleted messages.
	DeleteMessages(ctx context.Context, videoID string) (int, error)
}

// MessageFilter represents a filter for FindMessages.
type MessageFilter struct {
	VideoID *string `json:"videoId"`
	Role    *Role   `json:"role"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
