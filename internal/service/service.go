package service

import (
	"context"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/kafka"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/processor"
)

type ImageService interface {
	Compose(ctx context.Context, requestID string, req entity.ComposeRequest) (*entity.ComposeResponse, error)
}

type imageService struct {
	producer  kafka.Producer
	processor processor.ImageProcessor
}

func NewImageService(producer kafka.Producer, processor processor.ImageProcessor) ImageService {
	return &imageService{
		producer:  producer,
		processor: processor,
	}
}
