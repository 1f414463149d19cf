package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tubechat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tubechat.ConversationService = (*ConversationService)(nil)

// ConversationService implements tubechat.ConversationService using SQLite.
type ConversationService struct {
	db *DB
}

// NewConversationService creates a new ConversationService.
func NewConversationService(db *DB) *ConversationService {
	return &ConversationService{db: db}
}

// AppendMessages stores messages in a single transaction, assigning IDs and
// timestamps to messages that lack them.
func (s *ConversationService) AppendMessages(ctx context.Context, msgs ...*tubechat.Message) error {
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, video_id, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, msg.ID, msg.VideoID, string(msg.Role), msg.Content, formatTime(msg.CreatedAt)); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	return tx.Commit()
}

// FindMessages retrieves messages matching the filter in insertion order.
func (s *ConversationService) FindMessages(ctx context.Context, filter tubechat.MessageFilter) ([]*tubechat.Message, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, video_id, role, content, created_at FROM messages WHERE 1=1")

	if filter.VideoID != nil {
		query.WriteString(" AND video_id = ?")
		args = append(args, *filter.VideoID)
	}
	if filter.Role != nil {
		query.WriteString(" AND role = ?")
		args = append(args, string(*filter.Role))
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*tubechat.Message
	for rows.Next() {
		var msg tubechat.Message
		var role, createdAt string

		if err := rows.Scan(&msg.ID, &msg.VideoID, &role, &msg.Content, &createdAt); err != nil {
			return nil, err
		}
		msg.Role = tubechat.Role(role)

		if msg.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		msgs = append(msgs, &msg)
	}

	return msgs, rows.Err()
}

// DeleteMessages removes the conversation for a video. Deleting an empty
// conversation is not an error.
func (s *ConversationService) DeleteMessages(ctx context.Context, videoID string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE video_id = ?", videoID)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
