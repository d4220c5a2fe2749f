package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/techforum-dev/techforum/internal/domain"
	internal_errors "github.com/techforum-dev/techforum/internal/errors"
)

const commentColumns = `
    id, content, created_at,
    creator_id, creator_name, creator_username, creator_email, creator_is_moderator`

// CreateComment appends a comment to an unlocked thread and force-clears the
// thread's answered flag, all in one transaction. The lock check and the
// insert are atomic: a thread locked mid-request cannot gain a comment.
func (s *Storage) CreateComment(data domain.CommentCreationData, id domain.CommentId) (domain.Comment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var comment domain.Comment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var isLocked bool
		err := tx.QueryRow("SELECT is_locked FROM threads WHERE id = $1 FOR UPDATE", data.ThreadId).Scan(&isLocked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &internal_errors.ErrorWithStatusCode{Message: "Thread not found", StatusCode: http.StatusNotFound}
			}
			return fmt.Errorf("failed to fetch thread lock state: %w", err)
		}
		if isLocked {
			return &internal_errors.ErrorWithStatusCode{Message: "Thread is locked. You can no longer comment.", StatusCode: http.StatusLocked}
		}

		var createdAt time.Time
		err = tx.QueryRow(`
            INSERT INTO comments (id, thread_id, content, creator_id, creator_name, creator_username, creator_email, creator_is_moderator)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING created_at`,
			id, data.ThreadId, data.Content,
			data.Creator.Id, data.Creator.Name, data.Creator.Username,
			data.Creator.Email, data.Creator.IsModerator,
		).Scan(&createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		// a new comment invalidates the prior answered state
		if _, err := tx.Exec("UPDATE threads SET is_answered = FALSE WHERE id = $1", data.ThreadId); err != nil {
			return fmt.Errorf("failed to reset answered state: %w", err)
		}

		comment = domain.Comment{
			Id:        id,
			Content:   data.Content,
			CreatedAt: createdAt,
			Creator:   data.Creator,
		}
		return nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (s *Storage) threadComments(q Querier, threadId domain.ThreadId) ([]domain.Comment, error) {
	rows, err := q.Query(fmt.Sprintf(
		"SELECT %s FROM comments WHERE thread_id = $1 ORDER BY created_at", commentColumns), threadId)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.Id, &comment.Content, &comment.CreatedAt,
			&comment.Creator.Id, &comment.Creator.Name, &comment.Creator.Username,
			&comment.Creator.Email, &comment.Creator.IsModerator,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return comments, nil
}
