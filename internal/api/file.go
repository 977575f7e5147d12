package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizhive/quizhive/internal/middleware"
	"github.com/quizhive/quizhive/internal/repository"
	"go.uber.org/zap"
)

const maxFileSizeBytes = 50 << 20 // 50 MiB
const maxFilenameLen = 255

// FileHandler accepts multipart uploads, stores the bytes under the
// configured upload directory and records metadata, plus serves stored
// files back.
type FileHandler struct {
	repo      repository.FileRepository
	uploadDir string
	logger    *zap.Logger
}

func NewFileHandler(repo repository.FileRepository, uploadDir string, logger *zap.Logger) *FileHandler {
	return &FileHandler{repo: repo, uploadDir: uploadDir, logger: logger}
}

// sanitizeFilename strips directory components and anything else that
// could escape the upload dir. Only the base name survives; hostile names
// ("../../etc/passwd", absolute paths) collapse to their last element or
// the fallback "file".
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "" || name == "." || name == "/" || strings.Contains(name, "..") {
		name = "file"
	}
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}

// Upload handles POST /api/chat/files (multipart form, field "file").
//
// The disk write and the DB insert are two phases: bytes go to a ".tmp"
// sibling first, the row is inserted, and only then is the temp file
// renamed into place. A failed insert removes the temp file, so no row
// ever points at a path that was never fully written.
func (h *FileHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		// A part sent with an empty filename parses as a plain form value,
		// not a file — that's the "selected nothing" case, distinct from
		// the field being absent entirely.
		if c.Request.MultipartForm != nil {
			if _, ok := c.Request.MultipartForm.Value["file"]; ok {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "No selected file"})
				return
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No file part"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No selected file"})
		return
	}
	if header.Size < 0 || header.Size > maxFileSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "File too large"})
		return
	}

	filename := sanitizeFilename(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Prefix the stored name with the record's uuid so two uploads of
	// "notes.pdf" never collide on disk.
	fileID := uuid.New()
	dst := filepath.Join(h.uploadDir, fileID.String()+"_"+filename)
	tmp := dst + ".tmp"

	if err := h.writeTemp(tmp, file); err != nil {
		h.logger.Error("failed to write upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Upload failed"})
		return
	}

	userID := middleware.GetUserID(c)
	record, err := h.repo.Create(c.Request.Context(), fileID, filename, contentType, dst, userID)
	if err != nil {
		os.Remove(tmp)
		h.logger.Error("failed to record upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Upload failed"})
		return
	}

	if err := os.Rename(tmp, dst); err != nil {
		h.logger.Error("failed to finalize upload", zap.Error(err), zap.String("path", dst))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "File uploaded", "file_id": record.ID})
}

func (h *FileHandler) writeTemp(tmp string, src io.Reader) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Download handles GET /api/chat/files/:id
func (h *FileHandler) Download(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	record, err := h.repo.GetByID(c.Request.Context(), fileID)
	if err != nil {
		h.logger.Error("failed to get file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get file"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	if _, err := os.Stat(record.Filepath); errors.Is(err, os.ErrNotExist) {
		// Row exists but the bytes are gone — the orphan case in reverse.
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.FileAttachment(record.Filepath, record.Filename)
}
