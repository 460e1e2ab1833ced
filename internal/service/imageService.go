package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/codec"
	"github.com/sirupsen/logrus"
)

func (s *imageService) Compose(ctx context.Context, requestID string, req entity.ComposeRequest) (*entity.ComposeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	// Декодируем входные изображения
	photo, err := codec.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("imagem_base64: %w", err)
	}
	logo, err := codec.DecodeBase64Image(req.LogoBase64)
	if err != nil {
		return nil, fmt.Errorf("logo_base64: %w", err)
	}

	result, err := s.processor.Compose(photo, logo, req.Text)
	if err != nil {
		return nil, err
	}

	encoded, size, err := codec.EncodePNGBase64(result.Image)
	if err != nil {
		return nil, err
	}

	b := result.Image.Bounds()
	elapsed := time.Since(start)

	logrus.WithFields(logrus.Fields{
		"request_id":  requestID,
		"source_size": fmt.Sprintf("%dx%d", photo.Bounds().Dx(), photo.Bounds().Dy()),
		"output_size": fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"font_size":   result.Layout.FontSize,
		"lines":       len(result.Layout.Lines),
		"overflow":    !result.Layout.Fits(),
		"bytes":       size,
		"duration":    elapsed,
	}).Info("Image composed")

	// Событие не должно ломать ответ клиенту
	event := entity.ComposeEvent{
		RequestID:     requestID,
		Width:         b.Dx(),
		Height:        b.Dy(),
		FontSize:      result.Layout.FontSize,
		Lines:         len(result.Layout.Lines),
		CaptionLength: utf8.RuneCountInString(req.Text),
		OutputBytes:   size,
		DurationMs:    elapsed.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if s.producer != nil {
		if err := s.producer.SendMessage(ctx, requestID, event); err != nil {
			logrus.WithError(err).WithField("request_id", requestID).Warn("Failed to publish compose event")
		}
	}

	return &entity.ComposeResponse{
		ImageBase64: encoded,
		Width:       b.Dx(),
		Height:      b.Dy(),
		FontSize:    result.Layout.FontSize,
		Lines:       len(result.Layout.Lines),
	}, nil
}
