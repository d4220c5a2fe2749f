package domain

type (
	UserId   = string
	Email    = string
	Password = string

	ThreadId    = string
	ThreadTitle = string

	CommentId = string
	TagId     = string
)
