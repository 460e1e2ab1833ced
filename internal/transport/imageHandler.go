package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *ImageHandler) ComposeImage(c *gin.Context) {
	var req entity.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		err = fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	requestID := middleware.RequestID(c)

	resp, err := h.service.Compose(c.Request.Context(), requestID, req)
	if err != nil {
		status := statusFromError(err)
		entry := logrus.WithError(err).WithField("request_id", requestID)
		if status >= http.StatusInternalServerError {
			entry.Error("Image composition failed")
		} else {
			entry.Warn("Image composition rejected")
		}

		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, entity.ErrDecode), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrImage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
