package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/techforum-dev/techforum/internal/api"
	"github.com/techforum-dev/techforum/internal/config"
	"github.com/techforum-dev/techforum/internal/domain"
	"github.com/techforum-dev/techforum/internal/logger"
	"github.com/techforum-dev/techforum/internal/markdown"
	"github.com/techforum-dev/techforum/internal/service"
)

// Pinger reports storage health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	thread service.ThreadService
	user   service.UserService
	md     *markdown.TextProcessor
	cfg    *config.Config
	health Pinger
}

func New(thread service.ThreadService, user service.UserService, md *markdown.TextProcessor, cfg *config.Config, health Pinger) *Handler {
	return &Handler{thread, user, md, cfg, health}
}

// writeJSON sets Content-Type before the status line goes out; header-map
// changes after WriteHeader are silently dropped.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// threadResponse renders the stored markdown for the API payload.
func (h *Handler) threadResponse(t domain.Thread) api.ThreadResponse {
	resp := api.ThreadResponse{
		Thread:          t,
		DescriptionHtml: h.md.Render(t.Description),
		Comments:        make([]api.CommentResponse, len(t.Comments)),
	}
	for i, c := range t.Comments {
		resp.Comments[i] = h.commentResponse(c)
	}
	return resp
}

func (h *Handler) commentResponse(c domain.Comment) api.CommentResponse {
	return api.CommentResponse{Comment: c, ContentHtml: h.md.Render(c.Content)}
}
