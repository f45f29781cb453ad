package transport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/antonk9218/imgsuite/internal/entity"
	"github.com/antonk9218/imgsuite/internal/pkg/aiapi"
)

func (h *Handler) RecognizeImage(c *gin.Context) {
	var req entity.VisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageDataUrl is required"})
		return
	}
	if !strings.HasPrefix(req.ImageDataURL, "data:image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrInvalidImageData.Error()})
		return
	}

	result, err := h.ai.Recognize(c.Request.Context(), req)
	if err != nil {
		h.writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) GenerateImage(c *gin.Context) {
	var req entity.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	result, err := h.ai.Generate(c.Request.Context(), req)
	if err != nil {
		h.writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeAIError(c *gin.Context, err error) {
	var apiErr *aiapi.APIError

	switch {
	case errors.Is(err, entity.ErrInvalidImageData), errors.Is(err, entity.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrMissingAPIKey):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message, "code": apiErr.Code})
	case errors.Is(err, entity.ErrProviderUnreachable), errors.Is(err, entity.ErrMalformedResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
