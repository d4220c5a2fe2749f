package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techforum-dev/techforum/internal/api"
	"github.com/techforum-dev/techforum/internal/domain"
	mw "github.com/techforum-dev/techforum/internal/middleware"
	"github.com/techforum-dev/techforum/internal/utils"
)

func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.thread.GetAll()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.ThreadListResponse{Threads: make([]api.ThreadResponse, len(threads))}
	for i, t := range threads {
		response.Threads[i] = h.threadResponse(t)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId := chi.URLParam(r, "thread")

	thread, err := h.thread.Get(threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.threadResponse(thread))
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	tags := make([]domain.ThreadTag, len(body.Tags))
	for i, tagType := range body.Tags {
		tags[i] = domain.ThreadTag{TagType: domain.TagType(tagType)}
	}

	creation := domain.ThreadCreationData{
		Title:       body.Title,
		Category:    domain.Category(body.Category),
		Description: body.Description,
		Creator:     user.ThreadRef(),
		IsQnA:       body.IsQnA,
		Tags:        tags,
	}

	threadId, err := h.thread.Create(creation)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.CreateThreadResponse{Id: threadId})
}

func (h *Handler) EditThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId := chi.URLParam(r, "thread")

	var body api.EditThreadRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	upd := domain.ThreadUpdate{
		Title:       body.Title,
		Description: body.Description,
		IsQnA:       body.IsQnA,
	}
	if body.Category != nil {
		category := domain.Category(*body.Category)
		upd.Category = &category
	}

	thread, err := h.thread.Edit(*user, threadId, upd)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.threadResponse(thread))
}

func (h *Handler) LockThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId := chi.URLParam(r, "thread")

	var body api.LockThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.thread.SetLocked(*user, threadId, *body.IsLocked)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.threadResponse(thread))
}

func (h *Handler) MarkAnswered(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId := chi.URLParam(r, "thread")

	var body api.MarkAnsweredRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.thread.MarkAnswered(*user, threadId, body.CommentId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.threadResponse(thread))
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId := chi.URLParam(r, "thread")

	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.thread.AddComment(*user, threadId, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.commentResponse(comment))
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId := chi.URLParam(r, "thread")

	thread, err := h.thread.Delete(*user, threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.threadResponse(thread))
}
