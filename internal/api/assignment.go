package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizhive/quizhive/internal/middleware"
	"github.com/quizhive/quizhive/internal/repository"
	"go.uber.org/zap"
)

// AssignmentHandler handles assignment CRUD. Same access rules as quizzes:
// reads for everyone, mutations for teachers.
type AssignmentHandler struct {
	repo   repository.AssignmentRepository
	logger *zap.Logger
}

func NewAssignmentHandler(repo repository.AssignmentRepository, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{repo: repo, logger: logger}
}

type assignmentRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

// Create handles POST /api/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	if !requireTeacher(c, middleware.GetRole(c)) {
		return
	}

	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.repo.Create(c.Request.Context(), req.Title, req.Description, req.DueAt, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to create assignment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create assignment"})
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// List handles GET /api/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list assignments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assignments"})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// GetByID handles GET /api/assignments/:id
func (h *AssignmentHandler) GetByID(c *gin.Context) {
	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	assignment, err := h.repo.GetByID(c.Request.Context(), assignmentID)
	if err != nil {
		h.logger.Error("failed to get assignment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get assignment"})
		return
	}
	if assignment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// Update handles PUT /api/assignments/:id
func (h *AssignmentHandler) Update(c *gin.Context) {
	if !requireTeacher(c, middleware.GetRole(c)) {
		return
	}

	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.repo.Update(c.Request.Context(), assignmentID, req.Title, req.Description, req.DueAt)
	if err != nil {
		h.logger.Error("failed to update assignment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update assignment"})
		return
	}
	if assignment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// Delete handles DELETE /api/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if !requireTeacher(c, middleware.GetRole(c)) {
		return
	}

	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), assignmentID); err != nil {
		h.logger.Error("failed to delete assignment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete assignment"})
		return
	}

	c.Status(http.StatusNoContent)
}
