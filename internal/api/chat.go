package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizhive/quizhive/internal/middleware"
	"github.com/quizhive/quizhive/internal/repository"
	"go.uber.org/zap"
)

// ChatHandler serves the chat REST surface: the caller's chat list,
// ordered message history, chat creation and membership.
type ChatHandler struct {
	chatRepo       repository.ChatRepository
	membershipRepo repository.MembershipRepository
	messageRepo    repository.MessageRepository
	logger         *zap.Logger
}

func NewChatHandler(
	chatRepo repository.ChatRepository,
	membershipRepo repository.MembershipRepository,
	messageRepo repository.MessageRepository,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		chatRepo:       chatRepo,
		membershipRepo: membershipRepo,
		messageRepo:    messageRepo,
		logger:         logger,
	}
}

// ListChats handles GET /api/chat/
//
// Returns [{chat_id, chat_name}, ...] for every chat the authenticated
// user is a member of. No pagination.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := middleware.GetUserID(c)

	chats, err := h.chatRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list chats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chats"})
		return
	}

	c.JSON(http.StatusOK, chats)
}

// GetMessages handles GET /api/chat/messages/:chatID
//
// Full history ascending by sent_at (id tiebreak), each row enriched with
// sender_name. An unknown chat id returns [] with 200 — not distinguished
// from an empty chat.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	messages, err := h.messageRepo.ListByChat(c.Request.Context(), chatID)
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

type createChatRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateChat handles POST /api/chat
//
// Creates a chat and joins the creator, so the new chat shows up in their
// own list immediately.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)

	chat, err := h.chatRepo.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to create chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
		return
	}

	if err := h.membershipRepo.AddMember(c.Request.Context(), chat.ID, userID); err != nil {
		h.logger.Error("failed to add creator to chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
		return
	}

	c.JSON(http.StatusCreated, chat)
}

type addMemberRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// AddMember handles POST /api/chat/:chatID/members
//
// Only existing members may add someone. The insert itself is idempotent —
// adding a member twice succeeds silently.
func (h *ChatHandler) AddMember(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerID := middleware.GetUserID(c)
	isMember, err := h.membershipRepo.IsMember(c.Request.Context(), chatID, callerID)
	if err != nil {
		h.logger.Error("failed to check membership", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this chat"})
		return
	}

	if err := h.membershipRepo.AddMember(c.Request.Context(), chatID, req.UserID); err != nil {
		h.logger.Error("failed to add member", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /api/chat/:chatID/members
func (h *ChatHandler) ListMembers(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	members, err := h.membershipRepo.ListMembers(c.Request.Context(), chatID)
	if err != nil {
		h.logger.Error("failed to list members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, members)
}
