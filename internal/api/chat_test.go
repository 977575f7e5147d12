package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizhive/quizhive/internal/middleware"
	"github.com/quizhive/quizhive/internal/models"
	"go.uber.org/zap"
)

// withIdentity stands in for AuthMiddleware: it plants the claims a valid
// token would have produced.
func withIdentity(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyRole, role)
		c.Next()
	}
}

type fakeChatRepo struct {
	chats      map[int64]models.Chat
	members    map[int64][]int64 // chat id -> user ids
	nextChatID int64
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:   make(map[int64]models.Chat),
		members: make(map[int64][]int64),
	}
}

func (f *fakeChatRepo) Create(_ context.Context, name string) (*models.Chat, error) {
	f.nextChatID++
	ch := models.Chat{ID: f.nextChatID, Name: name, CreatedAt: time.Now()}
	f.chats[ch.ID] = ch
	return &ch, nil
}

func (f *fakeChatRepo) ListByUser(_ context.Context, userID int64) ([]models.Chat, error) {
	out := make([]models.Chat, 0)
	for chatID, users := range f.members {
		for _, u := range users {
			if u == userID {
				out = append(out, f.chats[chatID])
				break
			}
		}
	}
	return out, nil
}

func (f *fakeChatRepo) AddMember(_ context.Context, chatID, userID int64) error {
	for _, u := range f.members[chatID] {
		if u == userID {
			return nil
		}
	}
	f.members[chatID] = append(f.members[chatID], userID)
	return nil
}

func (f *fakeChatRepo) ListMembers(_ context.Context, chatID int64) ([]models.ChatMember, error) {
	out := make([]models.ChatMember, 0)
	for _, u := range f.members[chatID] {
		out = append(out, models.ChatMember{ChatID: chatID, UserID: u})
	}
	return out, nil
}

func (f *fakeChatRepo) IsMember(_ context.Context, chatID, userID int64) (bool, error) {
	for _, u := range f.members[chatID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

type stubMessageRepo struct {
	history map[int64][]models.MessageWithSender
}

func (s *stubMessageRepo) Create(_ context.Context, chatID, senderID int64, body string) (*models.Message, error) {
	msg := models.Message{ID: 1, ChatID: chatID, SenderID: senderID, Body: body, SentAt: time.Now()}
	return &msg, nil
}

func (s *stubMessageRepo) ListByChat(_ context.Context, chatID int64) ([]models.MessageWithSender, error) {
	out := s.history[chatID]
	if out == nil {
		out = make([]models.MessageWithSender, 0)
	}
	return out, nil
}

func newChatRouter(userID int64, role string, chats *fakeChatRepo, messages *stubMessageRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(chats, chats, messages, zap.NewNop())

	r := gin.New()
	authed := r.Group("/api", withIdentity(userID, role))
	authed.GET("/chat/", h.ListChats)
	authed.POST("/chat", h.CreateChat)
	authed.GET("/chat/messages/:chatID", h.GetMessages)
	authed.POST("/chat/:chatID/members", h.AddMember)
	authed.GET("/chat/:chatID/members", h.ListMembers)
	return r
}

func TestListChatsOnlyMemberships(t *testing.T) {
	chats := newFakeChatRepo()
	chats.Create(context.Background(), "Math 101")
	chats.Create(context.Background(), "Physics")
	chats.AddMember(context.Background(), 1, 7)
	chats.AddMember(context.Background(), 2, 8)

	r := newChatRouter(7, models.RoleStudent, chats, &stubMessageRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("chats = %d, want 1", len(got))
	}
	if got[0]["chat_id"].(float64) != 1 || got[0]["chat_name"] != "Math 101" {
		t.Errorf("chat = %v", got[0])
	}
}

func TestGetMessagesShapeAndOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := &stubMessageRepo{history: map[int64][]models.MessageWithSender{
		5: {
			{Message: models.Message{ID: 1, ChatID: 5, SenderID: 1, Body: "first", SentAt: base}, SenderName: "Alex Johnson"},
			{Message: models.Message{ID: 2, ChatID: 5, SenderID: 2, Body: "second", SentAt: base.Add(time.Minute)}, SenderName: "Dr. Emily Watson"},
		},
	}}

	r := newChatRouter(1, models.RoleStudent, newFakeChatRepo(), messages)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/messages/5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("messages = %d, want 2", len(got))
	}
	if got[0]["message_text"] != "first" || got[1]["message_text"] != "second" {
		t.Errorf("order wrong: %v", got)
	}
	first := got[0]
	for _, key := range []string{"message_id", "chat_id", "sender_id", "sender_name", "message_text", "sent_at"} {
		if _, ok := first[key]; !ok {
			t.Errorf("missing field %q in %v", key, first)
		}
	}
	if first["sender_name"] != "Alex Johnson" {
		t.Errorf("sender_name = %v", first["sender_name"])
	}
	// sent_at serializes as RFC 3339.
	if _, err := time.Parse(time.RFC3339, first["sent_at"].(string)); err != nil {
		t.Errorf("sent_at not ISO-8601: %v", first["sent_at"])
	}
}

// Unknown chat and empty chat are the same thing here: 200 with [].
func TestGetMessagesUnknownChatIsEmpty(t *testing.T) {
	r := newChatRouter(1, models.RoleStudent, newFakeChatRepo(), &stubMessageRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/messages/999", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestGetMessagesBadChatID(t *testing.T) {
	r := newChatRouter(1, models.RoleStudent, newFakeChatRepo(), &stubMessageRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/messages/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateChatJoinsCreator(t *testing.T) {
	chats := newFakeChatRepo()
	r := newChatRouter(7, models.RoleStudent, chats, &stubMessageRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"name":"Study group"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	ok, _ := chats.IsMember(context.Background(), 1, 7)
	if !ok {
		t.Error("creator not a member of the new chat")
	}
}

func TestAddMemberRequiresMembership(t *testing.T) {
	chats := newFakeChatRepo()
	chats.Create(context.Background(), "Math 101")
	chats.AddMember(context.Background(), 1, 7)

	// Caller 9 is not a member.
	r := newChatRouter(9, models.RoleStudent, chats, &stubMessageRepo{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/1/members", strings.NewReader(`{"user_id":8}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	// Caller 7 is a member and may add 8.
	r = newChatRouter(7, models.RoleStudent, chats, &stubMessageRepo{})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/chat/1/members", strings.NewReader(`{"user_id":8}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", w.Code, w.Body.String())
	}
	ok, _ := chats.IsMember(context.Background(), 1, 8)
	if !ok {
		t.Error("user 8 not added to chat 1")
	}
}
