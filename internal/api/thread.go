package api

import (
	"github.com/techforum-dev/techforum/internal/domain"
)

// Request DTOs

type CreateThreadRequest struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
	IsQnA       bool     `json:"isQnA,omitempty"`
	Tags        []string `json:"tags" validate:"required,min=1"`
}

// EditThreadRequest is a shallow patch; absent fields stay untouched.
type EditThreadRequest struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	IsQnA       *bool   `json:"isQnA,omitempty"`
}

type LockThreadRequest struct {
	IsLocked *bool `json:"isLocked" validate:"required"`
}

type MarkAnsweredRequest struct {
	CommentId string `json:"commentId" validate:"required"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Response DTOs

type CreateThreadResponse struct {
	Id domain.ThreadId `json:"id"`
}

// CommentResponse carries the stored comment plus its rendered HTML.
type CommentResponse struct {
	domain.Comment
	ContentHtml string `json:"contentHtml"`
}

// ThreadResponse wraps a full thread; Comments shadows the embedded list
// with the rendered variant.
type ThreadResponse struct {
	domain.Thread
	DescriptionHtml string            `json:"descriptionHtml"`
	Comments        []CommentResponse `json:"comments"`
}

type ThreadListResponse struct {
	Threads []ThreadResponse `json:"threads"`
}
