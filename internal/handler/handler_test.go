package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforum-dev/techforum/internal/api"
	"github.com/techforum-dev/techforum/internal/config"
	"github.com/techforum-dev/techforum/internal/domain"
	internal_errors "github.com/techforum-dev/techforum/internal/errors"
	"github.com/techforum-dev/techforum/internal/markdown"
	mw "github.com/techforum-dev/techforum/internal/middleware"
)

// --- Mocks ---

type MockThreadService struct {
	getAllFunc       func() ([]domain.Thread, error)
	getFunc          func(id domain.ThreadId) (domain.Thread, error)
	createFunc       func(data domain.ThreadCreationData) (domain.ThreadId, error)
	editFunc         func(actor domain.User, id domain.ThreadId, upd domain.ThreadUpdate) (domain.Thread, error)
	setLockedFunc    func(actor domain.User, id domain.ThreadId, locked bool) (domain.Thread, error)
	addCommentFunc   func(actor domain.User, threadId domain.ThreadId, content string) (domain.Comment, error)
	markAnsweredFunc func(actor domain.User, threadId domain.ThreadId, commentId domain.CommentId) (domain.Thread, error)
	deleteFunc       func(actor domain.User, id domain.ThreadId) (domain.Thread, error)
}

func (m *MockThreadService) GetAll() ([]domain.Thread, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc()
	}
	return nil, nil
}

func (m *MockThreadService) Get(id domain.ThreadId) (domain.Thread, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.Thread{Id: id}, nil
}

func (m *MockThreadService) Create(data domain.ThreadCreationData) (domain.ThreadId, error) {
	if m.createFunc != nil {
		return m.createFunc(data)
	}
	return "new-thread-id", nil
}

func (m *MockThreadService) Edit(actor domain.User, id domain.ThreadId, upd domain.ThreadUpdate) (domain.Thread, error) {
	if m.editFunc != nil {
		return m.editFunc(actor, id, upd)
	}
	return domain.Thread{Id: id}, nil
}

func (m *MockThreadService) SetLocked(actor domain.User, id domain.ThreadId, locked bool) (domain.Thread, error) {
	if m.setLockedFunc != nil {
		return m.setLockedFunc(actor, id, locked)
	}
	return domain.Thread{Id: id, IsLocked: locked}, nil
}

func (m *MockThreadService) AddComment(actor domain.User, threadId domain.ThreadId, content string) (domain.Comment, error) {
	if m.addCommentFunc != nil {
		return m.addCommentFunc(actor, threadId, content)
	}
	return domain.Comment{Id: "new-comment-id", Content: content}, nil
}

func (m *MockThreadService) MarkAnswered(actor domain.User, threadId domain.ThreadId, commentId domain.CommentId) (domain.Thread, error) {
	if m.markAnsweredFunc != nil {
		return m.markAnsweredFunc(actor, threadId, commentId)
	}
	return domain.Thread{Id: threadId}, nil
}

func (m *MockThreadService) Delete(actor domain.User, id domain.ThreadId) (domain.Thread, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(actor, id)
	}
	return domain.Thread{Id: id}, nil
}

type MockUserService struct {
	registerFunc func(data domain.RegistrationData) (domain.UserId, error)
	loginFunc    func(creds domain.Credentials) (string, domain.User, error)
	getFunc      func(id domain.UserId) (domain.User, error)
	getAllFunc   func() ([]domain.User, error)
}

func (m *MockUserService) Register(data domain.RegistrationData) (domain.UserId, error) {
	if m.registerFunc != nil {
		return m.registerFunc(data)
	}
	return "new-user-id", nil
}

func (m *MockUserService) Login(creds domain.Credentials) (string, domain.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(creds)
	}
	return "token", domain.User{Email: creds.Email}, nil
}

func (m *MockUserService) Get(id domain.UserId) (domain.User, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserService) GetAll() ([]domain.User, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc()
	}
	return nil, nil
}

// --- Test server wiring ---

var (
	regularUser   = domain.User{Id: "u1", Name: "Alice", Username: "alice"}
	moderatorUser = domain.User{Id: "m1", Name: "Mallory", Username: "mallory", IsModerator: true}
)

// asUser injects the user into the request context the way the auth
// middleware does.
func asUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), mw.UserClaimsKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{JwtTTL: config.Duration(time.Hour)}}
}

// newTestRouter mounts the handlers on the same paths the real router uses,
// with the given user pre-authenticated.
func newTestRouter(thread *MockThreadService, user *MockUserService, actor *domain.User) chi.Router {
	h := New(thread, user, markdown.New(), testConfig(), nil)

	r := chi.NewRouter()
	r.Use(asUser(actor))
	r.Post("/v1/auth/register", h.Register)
	r.Post("/v1/auth/login", h.Login)
	r.Post("/v1/auth/logout", h.Logout)
	r.Get("/v1/threads", h.GetThreads)
	r.Post("/v1/threads", h.CreateThread)
	r.Get("/v1/threads/{thread}", h.GetThread)
	r.Patch("/v1/threads/{thread}", h.EditThread)
	r.Delete("/v1/threads/{thread}", h.DeleteThread)
	r.Put("/v1/threads/{thread}/lock", h.LockThread)
	r.Put("/v1/threads/{thread}/answer", h.MarkAnswered)
	r.Post("/v1/threads/{thread}/comments", h.CreateComment)
	r.Get("/v1/users", h.GetUsers)
	r.Get("/v1/users/{user}", h.GetUser)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestGetThread(t *testing.T) {
	t.Run("renders markdown description and comments", func(t *testing.T) {
		thread := &MockThreadService{getFunc: func(id domain.ThreadId) (domain.Thread, error) {
			return domain.Thread{
				Id:          id,
				Title:       "Markdown rendering",
				Description: "some **bold** text",
				Comments: []domain.Comment{
					{Id: "c1", Content: "a `code` span"},
				},
			}, nil
		}}
		r := newTestRouter(thread, &MockUserService{}, nil)

		rec := doRequest(t, r, http.MethodGet, "/v1/threads/t1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.ThreadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.DescriptionHtml, "<strong>bold</strong>")
		require.Len(t, resp.Comments, 1)
		assert.Contains(t, resp.Comments[0].ContentHtml, "<code>code</code>")
	})

	t.Run("missing thread is a 404", func(t *testing.T) {
		thread := &MockThreadService{getFunc: func(id domain.ThreadId) (domain.Thread, error) {
			return domain.Thread{}, internal_errors.NotFound("Thread not found")
		}}
		r := newTestRouter(thread, &MockUserService{}, nil)

		rec := doRequest(t, r, http.MethodGet, "/v1/threads/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateThreadHandler(t *testing.T) {
	validBody := `{
		"title": "Why does TCP use three-way handshake?",
		"category": "Networking & Security",
		"description": "I keep wondering why two packets are not enough.",
		"isQnA": true,
		"tags": ["CYBERSECURITY"]
	}`

	t.Run("anonymous request is rejected", func(t *testing.T) {
		thread := &MockThreadService{}
		r := newTestRouter(thread, &MockUserService{}, nil)

		rec := doRequest(t, r, http.MethodPost, "/v1/threads", validBody)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("successful creation returns 201 with the new id", func(t *testing.T) {
		var captured domain.ThreadCreationData
		thread := &MockThreadService{createFunc: func(data domain.ThreadCreationData) (domain.ThreadId, error) {
			captured = data
			return "fresh-id", nil
		}}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPost, "/v1/threads", validBody)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp api.CreateThreadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.ThreadId("fresh-id"), resp.Id)
		assert.Equal(t, regularUser.Id, captured.Creator.Id)
		assert.Equal(t, domain.CategoryNetworkingSecurity, captured.Category)
		require.Len(t, captured.Tags, 1)
		assert.Equal(t, domain.TagCybersecurity, captured.Tags[0].TagType)
	})

	t.Run("missing tags fails request validation", func(t *testing.T) {
		created := false
		thread := &MockThreadService{createFunc: func(data domain.ThreadCreationData) (domain.ThreadId, error) {
			created = true
			return "", nil
		}}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		body := `{
			"title": "Why does TCP use three-way handshake?",
			"category": "Networking & Security",
			"description": "I keep wondering why two packets are not enough."
		}`
		rec := doRequest(t, r, http.MethodPost, "/v1/threads", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, created)
	})
}

func TestLockThreadHandler(t *testing.T) {
	t.Run("missing isLocked field is a 400", func(t *testing.T) {
		r := newTestRouter(&MockThreadService{}, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPut, "/v1/threads/t1/lock", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("explicit false unlocks", func(t *testing.T) {
		var gotLocked *bool
		thread := &MockThreadService{setLockedFunc: func(actor domain.User, id domain.ThreadId, locked bool) (domain.Thread, error) {
			gotLocked = &locked
			return domain.Thread{Id: id, IsLocked: locked}, nil
		}}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPut, "/v1/threads/t1/lock", `{"isLocked": false}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotLocked)
		assert.False(t, *gotLocked)
	})

	t.Run("permission denied surfaces as 403", func(t *testing.T) {
		thread := &MockThreadService{setLockedFunc: func(actor domain.User, id domain.ThreadId, locked bool) (domain.Thread, error) {
			return domain.Thread{}, internal_errors.PermissionDenied("You do not have permission to change the lock state of this thread.")
		}}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPut, "/v1/threads/t1/lock", `{"isLocked": true}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "permission")
	})
}

func TestCreateCommentHandler(t *testing.T) {
	t.Run("locked thread returns 423", func(t *testing.T) {
		thread := &MockThreadService{addCommentFunc: func(actor domain.User, threadId domain.ThreadId, content string) (domain.Comment, error) {
			return domain.Comment{}, internal_errors.Locked("Thread is locked. You can no longer comment.")
		}}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPost, "/v1/threads/t1/comments", `{"content": "too late"}`)

		assert.Equal(t, http.StatusLocked, rec.Code)
	})

	t.Run("successful comment returns 201 with rendered HTML", func(t *testing.T) {
		thread := &MockThreadService{}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPost, "/v1/threads/t1/comments", `{"content": "a *subtle* hint"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp api.CommentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.ContentHtml, "<em>subtle</em>")
	})

	t.Run("empty body is a 400", func(t *testing.T) {
		r := newTestRouter(&MockThreadService{}, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPost, "/v1/threads/t1/comments", `{"content": ""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMarkAnsweredHandler(t *testing.T) {
	t.Run("passes the comment id through", func(t *testing.T) {
		var gotComment domain.CommentId
		thread := &MockThreadService{markAnsweredFunc: func(actor domain.User, threadId domain.ThreadId, commentId domain.CommentId) (domain.Thread, error) {
			gotComment = commentId
			answered := commentId
			return domain.Thread{Id: threadId, IsAnswered: true, AnsweredCommentId: &answered}, nil
		}}
		r := newTestRouter(thread, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPut, "/v1/threads/t1/answer", `{"commentId": "c1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.CommentId("c1"), gotComment)
		var resp api.ThreadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.IsAnswered)
	})

	t.Run("missing commentId is a 400", func(t *testing.T) {
		r := newTestRouter(&MockThreadService{}, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPut, "/v1/threads/t1/answer", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteThreadHandler(t *testing.T) {
	t.Run("forwards the actor so the service can refuse non-moderators", func(t *testing.T) {
		var gotActor domain.User
		thread := &MockThreadService{deleteFunc: func(actor domain.User, id domain.ThreadId) (domain.Thread, error) {
			gotActor = actor
			return domain.Thread{Id: id}, nil
		}}
		r := newTestRouter(thread, &MockUserService{}, &moderatorUser)

		rec := doRequest(t, r, http.MethodDelete, "/v1/threads/t1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, gotActor.IsModerator)
	})
}

func TestAuthHandlers(t *testing.T) {
	t.Run("register returns 201 with the new id", func(t *testing.T) {
		user := &MockUserService{registerFunc: func(data domain.RegistrationData) (domain.UserId, error) {
			assert.Equal(t, "alice@example.com", string(data.Email))
			return "u-new", nil
		}}
		r := newTestRouter(&MockThreadService{}, user, nil)

		body := `{"name": "Alice", "username": "alice", "email": "alice@example.com", "password": "correct horse battery staple"}`
		rec := doRequest(t, r, http.MethodPost, "/v1/auth/register", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp api.RegisterResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.UserId("u-new"), resp.Id)
	})

	t.Run("register with malformed email is a 400", func(t *testing.T) {
		r := newTestRouter(&MockThreadService{}, &MockUserService{}, nil)

		body := `{"name": "Alice", "username": "alice", "email": "not-an-email", "password": "correct horse battery staple"}`
		rec := doRequest(t, r, http.MethodPost, "/v1/auth/register", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login sets the access token cookie", func(t *testing.T) {
		user := &MockUserService{loginFunc: func(creds domain.Credentials) (string, domain.User, error) {
			return "signed-token", domain.User{Id: "u1", Email: creds.Email}, nil
		}}
		r := newTestRouter(&MockThreadService{}, user, nil)

		body := `{"email": "alice@example.com", "password": "correct horse battery staple"}`
		rec := doRequest(t, r, http.MethodPost, "/v1/auth/login", body)

		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "accessToken", cookies[0].Name)
		assert.Equal(t, "signed-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge)
	})

	t.Run("bad credentials are a 401 and no cookie is set", func(t *testing.T) {
		user := &MockUserService{loginFunc: func(creds domain.Credentials) (string, domain.User, error) {
			return "", domain.User{}, internal_errors.Unauthorized("Wrong email or password")
		}}
		r := newTestRouter(&MockThreadService{}, user, nil)

		body := `{"email": "alice@example.com", "password": "wrong"}`
		rec := doRequest(t, r, http.MethodPost, "/v1/auth/login", body)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("logout expires the cookie", func(t *testing.T) {
		r := newTestRouter(&MockThreadService{}, &MockUserService{}, &regularUser)

		rec := doRequest(t, r, http.MethodPost, "/v1/auth/logout", "")

		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "accessToken", cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0)
	})
}

func TestGetUsersHandler(t *testing.T) {
	t.Run("password hash never leaves the API", func(t *testing.T) {
		user := &MockUserService{getAllFunc: func() ([]domain.User, error) {
			return []domain.User{{Id: "u1", Username: "alice", PassHash: "$2a$10$secret"}}, nil
		}}
		r := newTestRouter(&MockThreadService{}, user, &moderatorUser)

		rec := doRequest(t, r, http.MethodGet, "/v1/users", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
		assert.Contains(t, rec.Body.String(), "alice")
	})
}
