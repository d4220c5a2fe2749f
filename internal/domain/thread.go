package domain

import "time"

type Category string

const (
	CategorySoftwareDevelopment Category = "Software Development"
	CategoryNetworkingSecurity  Category = "Networking & Security"
	CategoryHardwareGadgets     Category = "Hardware & Gadgets"
	CategoryCloudComputing      Category = "Cloud Computing"
	CategoryTechNewsTrends      Category = "Tech News & Trends"
)

var categories = map[Category]struct{}{
	CategorySoftwareDevelopment: {},
	CategoryNetworkingSecurity:  {},
	CategoryHardwareGadgets:     {},
	CategoryCloudComputing:      {},
	CategoryTechNewsTrends:      {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

type ThreadStatus string

const (
	StatusNew ThreadStatus = "New"
	StatusHot ThreadStatus = "Hot" // never written, kept for stored documents that carry it
)

type Thread struct {
	Id                ThreadId     `json:"id"`
	Title             ThreadTitle  `json:"title"`
	Category          Category     `json:"category"`
	Status            ThreadStatus `json:"status"`
	CreatedAt         time.Time    `json:"creationDate"`
	Description       string       `json:"description"`
	Creator           UserRef      `json:"creator"`
	Comments          []Comment    `json:"comments"`
	IsQnA             bool         `json:"isQnA"`
	IsAnswered        bool         `json:"isAnswered"`
	IsLocked          bool         `json:"isLocked"`
	AnsweredCommentId *CommentId   `json:"answeredCommentId"`
	Tags              []ThreadTag  `json:"tags"`
}

// CanMutate reports whether actor may edit, lock or unlock the thread.
// Deletion is stricter (moderator only), answered-toggling is stricter
// still (creator only); both are checked at the service layer.
func (t *Thread) CanMutate(actor *User) bool {
	return t.Creator.Id == actor.Id || actor.IsModerator
}

// Comment returns the thread's comment with the given id, nil if absent.
func (t *Thread) Comment(id CommentId) *Comment {
	for i := range t.Comments {
		if t.Comments[i].Id == id {
			return &t.Comments[i]
		}
	}
	return nil
}

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Title       ThreadTitle
	Category    Category
	Description string
	Creator     UserRef
	IsQnA       bool
	Tags        []ThreadTag
}

// ThreadUpdate is a shallow field patch; nil fields are left untouched.
type ThreadUpdate struct {
	Title       *ThreadTitle
	Category    *Category
	Description *string
	IsQnA       *bool
}

// Apply merges the patch into t.
func (u *ThreadUpdate) Apply(t *Thread) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.IsQnA != nil {
		t.IsQnA = *u.IsQnA
	}
}
