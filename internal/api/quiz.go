package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizhive/quizhive/internal/middleware"
	"github.com/quizhive/quizhive/internal/repository"
	"go.uber.org/zap"
)

// QuizHandler handles quiz CRUD. Any authenticated user can read;
// mutations require the teacher role.
type QuizHandler struct {
	repo   repository.QuizRepository
	logger *zap.Logger
}

func NewQuizHandler(repo repository.QuizRepository, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{repo: repo, logger: logger}
}

// quizRequest is the body for both create and update. Questions is kept as
// raw JSON — the backend stores the document, it doesn't grade it.
type quizRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Questions   json.RawMessage `json:"questions"`
}

// Create handles POST /api/quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	if !requireTeacher(c, middleware.GetRole(c)) {
		return
	}

	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.repo.Create(c.Request.Context(), req.Title, req.Description, req.Questions, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to create quiz", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create quiz"})
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// List handles GET /api/quizzes
func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list quizzes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list quizzes"})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetByID handles GET /api/quizzes/:id
func (h *QuizHandler) GetByID(c *gin.Context) {
	quizID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz id"})
		return
	}

	quiz, err := h.repo.GetByID(c.Request.Context(), quizID)
	if err != nil {
		h.logger.Error("failed to get quiz", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get quiz"})
		return
	}
	if quiz == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// Update handles PUT /api/quizzes/:id
func (h *QuizHandler) Update(c *gin.Context) {
	if !requireTeacher(c, middleware.GetRole(c)) {
		return
	}

	quizID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz id"})
		return
	}

	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.repo.Update(c.Request.Context(), quizID, req.Title, req.Description, req.Questions)
	if err != nil {
		h.logger.Error("failed to update quiz", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update quiz"})
		return
	}
	if quiz == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// Delete handles DELETE /api/quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	if !requireTeacher(c, middleware.GetRole(c)) {
		return
	}

	quizID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), quizID); err != nil {
		h.logger.Error("failed to delete quiz", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete quiz"})
		return
	}

	c.Status(http.StatusNoContent)
}
