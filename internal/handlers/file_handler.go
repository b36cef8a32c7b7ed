package handlers

import (
	"io"
	"net/http"

	"bookreview_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// FileHandler streams stored profile artifacts.
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, store storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     store,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.GET("/profile/:filename", h.serveFrom(storage.ProfileArea))
		files.GET("/profile/thumb/:filename", h.serveFrom(storage.ProfileThumbArea))
	}
}

func (h *FileHandler) serveFrom(area string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := storage.SafeFilename(c.Param("filename"))
		path := area + "/" + name

		reader, err := h.storage.Get(c.Request.Context(), path)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		defer reader.Close()

		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, reader); err != nil {
			// Client likely disconnected mid-stream; nothing to respond
			return
		}
	}
}
