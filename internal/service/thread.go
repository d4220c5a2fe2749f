package service

import (
	"github.com/google/uuid"

	"github.com/techforum-dev/techforum/internal/domain"
	"github.com/techforum-dev/techforum/internal/errors"
	"github.com/techforum-dev/techforum/internal/logger"
)

type ThreadService interface {
	GetAll() ([]domain.Thread, error)
	Get(id domain.ThreadId) (domain.Thread, error)
	Create(data domain.ThreadCreationData) (domain.ThreadId, error)
	Edit(actor domain.User, id domain.ThreadId, upd domain.ThreadUpdate) (domain.Thread, error)
	SetLocked(actor domain.User, id domain.ThreadId, locked bool) (domain.Thread, error)
	AddComment(actor domain.User, threadId domain.ThreadId, content string) (domain.Comment, error)
	MarkAnswered(actor domain.User, threadId domain.ThreadId, commentId domain.CommentId) (domain.Thread, error)
	Delete(actor domain.User, id domain.ThreadId) (domain.Thread, error)
}

type ThreadStorage interface {
	CreateThread(data domain.ThreadCreationData, id domain.ThreadId) (domain.ThreadId, error)
	Thread(id domain.ThreadId) (domain.Thread, error)
	Threads() ([]domain.Thread, error)
	UpdateThread(id domain.ThreadId, upd domain.ThreadUpdate) (domain.Thread, error)
	SetThreadLocked(id domain.ThreadId, locked bool) error
	SetThreadAnswered(id domain.ThreadId, answered bool, commentId *domain.CommentId) error
	DeleteThread(id domain.ThreadId) (domain.Thread, error)
	CreateComment(data domain.CommentCreationData, id domain.CommentId) (domain.Comment, error)
}

type ThreadValidator interface {
	Title(title domain.ThreadTitle) error
	Description(description string) error
	Category(category domain.Category) error
	Tags(tags []domain.ThreadTag) error
}

type CommentValidator interface {
	Content(content string) error
}

type Thread struct {
	storage          ThreadStorage
	users            UserStorage
	validator        ThreadValidator
	commentValidator CommentValidator
}

func NewThread(storage ThreadStorage, users UserStorage, validator ThreadValidator, commentValidator CommentValidator) *Thread {
	return &Thread{storage, users, validator, commentValidator}
}

func (t *Thread) GetAll() ([]domain.Thread, error) {
	return t.storage.Threads()
}

func (t *Thread) Get(id domain.ThreadId) (domain.Thread, error) {
	return t.storage.Thread(id)
}

// Create validates the submission, verifies the creator exists and persists
// the thread with a fresh id, status "New", no comments and default flags.
func (t *Thread) Create(data domain.ThreadCreationData) (domain.ThreadId, error) {
	if err := t.validator.Title(data.Title); err != nil {
		return "", err
	}
	if err := t.validator.Description(data.Description); err != nil {
		return "", err
	}
	if err := t.validator.Category(data.Category); err != nil {
		return "", err
	}
	if err := t.validator.Tags(data.Tags); err != nil {
		return "", err
	}

	// denormalize the creator snapshot from the canonical user record
	creator, err := t.users.User(data.Creator.Id)
	if err != nil {
		return "", err
	}
	data.Creator = creator.ThreadRef()

	for i := range data.Tags {
		data.Tags[i].Id = uuid.NewString()
	}

	id, err := t.storage.CreateThread(data, uuid.NewString())
	if err != nil {
		return "", err
	}
	logger.Log.Info("thread created", "thread", id, "creator", creator.Id)
	return id, nil
}

// Edit applies a shallow field patch. Only the creator or a moderator may
// edit; validation runs only on the fields present in the patch.
func (t *Thread) Edit(actor domain.User, id domain.ThreadId, upd domain.ThreadUpdate) (domain.Thread, error) {
	thread, err := t.storage.Thread(id)
	if err != nil {
		return domain.Thread{}, err
	}
	if !thread.CanMutate(&actor) {
		return domain.Thread{}, errors.PermissionDenied("You do not have permission to edit this thread.")
	}

	if upd.Title != nil {
		if err := t.validator.Title(*upd.Title); err != nil {
			return domain.Thread{}, err
		}
	}
	if upd.Description != nil {
		if err := t.validator.Description(*upd.Description); err != nil {
			return domain.Thread{}, err
		}
	}
	if upd.Category != nil {
		if err := t.validator.Category(*upd.Category); err != nil {
			return domain.Thread{}, err
		}
	}

	return t.storage.UpdateThread(id, upd)
}

// SetLocked toggles the lock flag through the same creator-or-moderator
// check as Edit.
func (t *Thread) SetLocked(actor domain.User, id domain.ThreadId, locked bool) (domain.Thread, error) {
	thread, err := t.storage.Thread(id)
	if err != nil {
		return domain.Thread{}, err
	}
	if !thread.CanMutate(&actor) {
		return domain.Thread{}, errors.PermissionDenied("You do not have permission to change the lock state of this thread.")
	}

	if err := t.storage.SetThreadLocked(id, locked); err != nil {
		return domain.Thread{}, err
	}
	thread.IsLocked = locked
	logger.Log.Info("thread lock state changed", "thread", id, "locked", locked, "actor", actor.Id)
	return thread, nil
}

// AddComment appends a comment to an unlocked thread. The commenter identity
// is resolved from the user store so the denormalized snapshot reflects the
// canonical record, not whatever the client sent.
func (t *Thread) AddComment(actor domain.User, threadId domain.ThreadId, content string) (domain.Comment, error) {
	if err := t.commentValidator.Content(content); err != nil {
		return domain.Comment{}, err
	}

	thread, err := t.storage.Thread(threadId)
	if err != nil {
		return domain.Comment{}, err
	}
	if thread.IsLocked {
		return domain.Comment{}, errors.Locked("Thread is locked. You can no longer comment.")
	}

	commenter, err := t.users.User(actor.Id)
	if err != nil {
		return domain.Comment{}, err
	}

	data := domain.CommentCreationData{
		ThreadId: threadId,
		Content:  content,
		Creator:  commenter.Ref(),
	}
	return t.storage.CreateComment(data, uuid.NewString())
}

// MarkAnswered toggles the answered mark. Only the thread's creator may do
// this (moderators are not exempt). Marking the currently-answered comment
// again clears the mark, so two identical calls cancel out.
func (t *Thread) MarkAnswered(actor domain.User, threadId domain.ThreadId, commentId domain.CommentId) (domain.Thread, error) {
	thread, err := t.storage.Thread(threadId)
	if err != nil {
		return domain.Thread{}, err
	}
	if thread.Creator.Id != actor.Id {
		return domain.Thread{}, errors.PermissionDenied("You do not have permission to mark an answer.")
	}
	if thread.Comment(commentId) == nil {
		return domain.Thread{}, errors.NotFound("Comment not found in this thread")
	}

	answered := thread.AnsweredCommentId == nil || *thread.AnsweredCommentId != commentId
	var ref *domain.CommentId
	if answered {
		ref = &commentId
	}

	if err := t.storage.SetThreadAnswered(threadId, answered, ref); err != nil {
		return domain.Thread{}, err
	}
	thread.IsAnswered = answered
	thread.AnsweredCommentId = ref
	return thread, nil
}

// Delete removes a thread and returns its prior state. Moderator only;
// authorship does not suffice.
func (t *Thread) Delete(actor domain.User, id domain.ThreadId) (domain.Thread, error) {
	if !actor.IsModerator {
		return domain.Thread{}, errors.PermissionDenied("You do not have permission to delete this thread.")
	}

	thread, err := t.storage.DeleteThread(id)
	if err != nil {
		return domain.Thread{}, err
	}
	logger.Log.Info("thread deleted", "thread", id, "moderator", actor.Id)
	return thread, nil
}
