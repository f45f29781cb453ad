package service

import (
	"context"

	"github.com/antonk9218/imgsuite/internal/entity"
	"github.com/antonk9218/imgsuite/internal/pkg/aiapi"
)

type aiService struct {
	client *aiapi.Client
}

func NewAIService(client *aiapi.Client) AIService {
	return &aiService{client: client}
}

func (s *aiService) Recognize(ctx context.Context, req entity.VisionRequest) (*entity.VisionResult, error) {
	return s.client.Recognize(ctx, req)
}

func (s *aiService) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error) {
	return s.client.Generate(ctx, req)
}
