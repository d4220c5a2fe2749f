package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/techforum-dev/techforum/internal/domain"
	internal_errors "github.com/techforum-dev/techforum/internal/errors"
)

const threadColumns = `
    id, title, category, status, created_at, description,
    creator_id, creator_name, creator_username,
    is_qna, is_answered, is_locked, answered_comment_id`

// CreateThread verifies the creator exists and inserts the thread together
// with its tags in one transaction.
func (s *Storage) CreateThread(data domain.ThreadCreationData, id domain.ThreadId) (domain.ThreadId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var creatorId domain.UserId
		err := tx.QueryRow("SELECT id FROM users WHERE id = $1", data.Creator.Id).Scan(&creatorId)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
			}
			return fmt.Errorf("failed to validate creator: %w", err)
		}

		_, err = tx.Exec(`
            INSERT INTO threads (id, title, category, status, description, creator_id, creator_name, creator_username, is_qna)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, data.Title, data.Category, domain.StatusNew, data.Description,
			data.Creator.Id, data.Creator.Name, data.Creator.Username, data.IsQnA,
		)
		if err != nil {
			return fmt.Errorf("failed to insert thread: %w", err)
		}

		for _, tag := range data.Tags {
			if _, err := tx.Exec(
				"INSERT INTO thread_tags (id, thread_id, tag_type) VALUES ($1, $2, $3)",
				tag.Id, id, tag.TagType,
			); err != nil {
				return fmt.Errorf("failed to insert thread tag: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Thread fetches one thread with its tags and comments.
func (s *Storage) Thread(id domain.ThreadId) (domain.Thread, error) {
	thread, err := s.threadRow(s.db, id)
	if err != nil {
		return domain.Thread{}, err
	}

	tags, err := s.threadTags(s.db, id)
	if err != nil {
		return domain.Thread{}, err
	}
	thread.Tags = tags

	comments, err := s.threadComments(s.db, id)
	if err != nil {
		return domain.Thread{}, err
	}
	thread.Comments = comments

	return thread, nil
}

// Threads fetches every thread, newest first, with tags and comments joined
// in via two grouped queries.
func (s *Storage) Threads() ([]domain.Thread, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM threads ORDER BY created_at DESC", threadColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.Thread
	threadIdxMap := make(map[domain.ThreadId]int)
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
		threadIdxMap[thread.Id] = len(threads) - 1
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	if len(threads) == 0 {
		return threads, nil
	}

	tagRows, err := s.db.Query("SELECT thread_id, id, tag_type FROM thread_tags ORDER BY thread_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query thread tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var threadId domain.ThreadId
		var tag domain.ThreadTag
		if err := tagRows.Scan(&threadId, &tag.Id, &tag.TagType); err != nil {
			return nil, fmt.Errorf("failed to scan thread tag: %w", err)
		}
		if idx, ok := threadIdxMap[threadId]; ok {
			threads[idx].Tags = append(threads[idx].Tags, tag)
		}
	}
	if err = tagRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	commentRows, err := s.db.Query(fmt.Sprintf(
		"SELECT thread_id, %s FROM comments ORDER BY created_at", commentColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var threadId domain.ThreadId
		var comment domain.Comment
		if err := commentRows.Scan(
			&threadId, &comment.Id, &comment.Content, &comment.CreatedAt,
			&comment.Creator.Id, &comment.Creator.Name, &comment.Creator.Username,
			&comment.Creator.Email, &comment.Creator.IsModerator,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if idx, ok := threadIdxMap[threadId]; ok {
			threads[idx].Comments = append(threads[idx].Comments, comment)
		}
	}
	if err = commentRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return threads, nil
}

// UpdateThread applies the non-nil patch fields and returns the merged
// thread. Permission checks happen at the service layer before this call.
func (s *Storage) UpdateThread(id domain.ThreadId, upd domain.ThreadUpdate) (domain.Thread, error) {
	var set []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.IsQnA != nil {
		add("is_qna", *upd.IsQnA)
	}
	if len(set) == 0 {
		return s.Thread(id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE threads SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to update thread: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Thread{}, &internal_errors.ErrorWithStatusCode{Message: "Thread not found", StatusCode: http.StatusNotFound}
	}

	return s.Thread(id)
}

// SetThreadLocked flips the lock flag.
func (s *Storage) SetThreadLocked(id domain.ThreadId, locked bool) error {
	result, err := s.db.Exec("UPDATE threads SET is_locked = $1 WHERE id = $2", locked, id)
	if err != nil {
		return fmt.Errorf("failed to update lock state: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Thread not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// SetThreadAnswered writes the answered flag and comment reference together.
// commentId must be nil exactly when answered is false.
func (s *Storage) SetThreadAnswered(id domain.ThreadId, answered bool, commentId *domain.CommentId) error {
	result, err := s.db.Exec(
		"UPDATE threads SET is_answered = $1, answered_comment_id = $2 WHERE id = $3",
		answered, commentId, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update answered state: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Thread not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// DeleteThread removes the thread and returns its prior state. Tags and
// comments cascade via foreign keys.
func (s *Storage) DeleteThread(id domain.ThreadId) (domain.Thread, error) {
	thread, err := s.Thread(id)
	if err != nil {
		return domain.Thread{}, err
	}

	result, err := s.db.Exec("DELETE FROM threads WHERE id = $1", id)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to delete thread: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Thread{}, &internal_errors.ErrorWithStatusCode{Message: "Thread not found", StatusCode: http.StatusNotFound}
	}

	return thread, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanThread(row rowScanner) (domain.Thread, error) {
	var thread domain.Thread
	var answeredCommentId sql.NullString
	err := row.Scan(
		&thread.Id, &thread.Title, &thread.Category, &thread.Status,
		&thread.CreatedAt, &thread.Description,
		&thread.Creator.Id, &thread.Creator.Name, &thread.Creator.Username,
		&thread.IsQnA, &thread.IsAnswered, &thread.IsLocked, &answeredCommentId,
	)
	if err != nil {
		return domain.Thread{}, err
	}
	if answeredCommentId.Valid {
		thread.AnsweredCommentId = &answeredCommentId.String
	}
	return thread, nil
}

func (s *Storage) threadRow(q Querier, id domain.ThreadId) (domain.Thread, error) {
	row := q.QueryRow(fmt.Sprintf("SELECT %s FROM threads WHERE id = $1", threadColumns), id)
	thread, err := scanThread(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, &internal_errors.ErrorWithStatusCode{Message: "Thread not found", StatusCode: http.StatusNotFound}
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return thread, nil
}

func (s *Storage) threadTags(q Querier, id domain.ThreadId) ([]domain.ThreadTag, error) {
	rows, err := q.Query("SELECT id, tag_type FROM thread_tags WHERE thread_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.ThreadTag
	for rows.Next() {
		var tag domain.ThreadTag
		if err := rows.Scan(&tag.Id, &tag.TagType); err != nil {
			return nil, fmt.Errorf("failed to scan thread tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return tags, nil
}
