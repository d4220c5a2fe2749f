package domain

import "time"

type Comment struct {
	Id        CommentId `json:"commentId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"creationDate"`
	Creator   UserRef   `json:"creator"`
}

// to iterate thru layers: handler -> service -> storage
type CommentCreationData struct {
	ThreadId ThreadId
	Content  string
	Creator  UserRef
}
