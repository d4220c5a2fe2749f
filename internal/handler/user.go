package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techforum-dev/techforum/internal/api"
	"github.com/techforum-dev/techforum/internal/utils"
)

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.user.GetAll()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.UserListResponse{Users: users})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userId := chi.URLParam(r, "user")

	user, err := h.user.Get(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.UserResponse{User: user})
}
