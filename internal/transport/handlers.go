package transport

import (
	"github.com/antonk9218/imgsuite/internal/entity"
	"github.com/antonk9218/imgsuite/internal/service"
)

type Handler struct {
	compress       service.CompressService
	queue          service.QueueService
	ai             service.AIService
	defaultQuality float64
	maxUploadBytes int64
}

func NewHandler(compress service.CompressService, queue service.QueueService, ai service.AIService, defaultQuality float64, maxUploadMB int64) *Handler {
	return &Handler{
		compress:       compress,
		queue:          queue,
		ai:             ai,
		defaultQuality: defaultQuality,
		maxUploadBytes: maxUploadMB << 20,
	}
}

func toItemResponse(item entity.QueueItem) entity.QueueItemResponse {
	return entity.QueueItemResponse{
		ID:         item.ID,
		Filename:   item.Filename,
		Status:     item.Status,
		Error:      item.ErrorMessage,
		ErrorCode:  item.ErrorCode,
		Credits:    item.Credits,
		HasResult:  len(item.Result) > 0,
		HasPreview: len(item.Preview) > 0,
		CreatedAt:  item.CreatedAt,
	}
}
