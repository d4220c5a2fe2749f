package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/techforum-dev/techforum/internal/domain"
	internal_errors "github.com/techforum-dev/techforum/internal/errors"
)

// SaveUser inserts a new user record keyed by its pre-assigned id.
func (s *Storage) SaveUser(user domain.User) error {
	_, err := s.db.Exec(`
        INSERT INTO users(id, name, username, email, password_hash, is_moderator)
        VALUES($1, $2, $3, $4, $5, $6)`,
		user.Id, user.Name, user.Username, user.Email, user.PassHash, user.IsModerator,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "Email or username already taken", StatusCode: http.StatusConflict}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// User fetches a single user by id.
func (s *Storage) User(id domain.UserId) (domain.User, error) {
	return s.user(s.db, "id", id)
}

// UserByEmail fetches a single user by email, used by login.
func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.user(s.db, "email", email)
}

func (s *Storage) user(q Querier, column string, value string) (domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`
        SELECT id, name, username, email, password_hash, is_moderator, created_at
        FROM users WHERE %s = $1`, column)
	err := q.QueryRow(query, value).Scan(
		&user.Id, &user.Name, &user.Username, &user.Email,
		&user.PassHash, &user.IsModerator, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// Users fetches every user document, ordered by registration time.
func (s *Storage) Users() ([]domain.User, error) {
	rows, err := s.db.Query(`
        SELECT id, name, username, email, password_hash, is_moderator, created_at
        FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.Id, &user.Name, &user.Username, &user.Email,
			&user.PassHash, &user.IsModerator, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return users, nil
}
