package transport

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/antonk9218/imgsuite/internal/entity"
)

func (h *Handler) EnqueueImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No multipart form provided"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image files provided"})
		return
	}

	uploads := make([]entity.Upload, 0, len(files))
	for _, file := range files {
		if !isValidImageType(filepath.Ext(file.Filename)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image type. Supported: jpg, jpeg, png, gif, webp"})
			return
		}
		if file.Size > h.maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds upload limit"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		uploads = append(uploads, entity.Upload{Filename: file.Filename, Data: data})
	}

	added := h.queue.Enqueue(uploads)

	response := entity.EnqueueResponse{Added: make([]entity.QueueItemResponse, 0, len(added))}
	for _, item := range added {
		response.Added = append(response.Added, toItemResponse(item))
	}
	c.JSON(http.StatusCreated, response)
}

func (h *Handler) ListQueue(c *gin.Context) {
	items := h.queue.Items()

	response := entity.QueueResponse{
		Items:  make([]entity.QueueItemResponse, 0, len(items)),
		Active: h.queue.Active(),
	}
	for _, item := range items {
		response.Items = append(response.Items, toItemResponse(item))
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	if err := h.queue.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Queue item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (h *Handler) SetActiveItem(c *gin.Context) {
	if err := h.queue.SetActive(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Queue item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": c.Param("id")})
}

func (h *Handler) ItemPreview(c *gin.Context) {
	item, err := h.queue.Item(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Queue item not found"})
		return
	}
	if len(item.Preview) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item has no preview"})
		return
	}
	c.Data(http.StatusOK, "image/png", item.Preview)
}

func (h *Handler) ItemResult(c *gin.Context) {
	item, err := h.queue.Item(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Queue item not found"})
		return
	}
	if item.Status != entity.StatusDone || len(item.Result) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": entity.ErrResultNotReady.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", item.Result)
}

type runBatchRequest struct {
	APIKey string `json:"apiKey"`
}

func (h *Handler) RunBatch(c *gin.Context) {
	var req runBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	err := h.queue.Run(c.Request.Context(), req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrMissingAPIKey):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, entity.ErrEmptyQueue), errors.Is(err, entity.ErrNoEligibleItems), errors.Is(err, entity.ErrBatchRunning):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.ListQueue(c)
}

func isValidImageType(ext string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	return validTypes[ext]
}
