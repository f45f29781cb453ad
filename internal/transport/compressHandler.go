package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antonk9218/imgsuite/internal/entity"
)

func (h *Handler) CompressImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds upload limit"})
		return
	}

	quality := h.defaultQuality
	if raw := c.PostForm("quality"); raw != "" {
		quality, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quality value"})
			return
		}
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := h.compress.Compress(data, file.Filename, quality)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidQuality), errors.Is(err, entity.ErrDecodeFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Original-Size", strconv.Itoa(result.OriginalSize))
	c.Header("X-Compressed-Size", strconv.Itoa(result.CompressedSize))
	c.Data(http.StatusOK, result.MimeType, result.Data)
}
