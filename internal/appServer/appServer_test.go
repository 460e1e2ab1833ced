package appServer

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ds124wfegd/imagecomposer/config"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Composer: config.ComposerConfig{AssetsDir: "./assets"},
		Kafka:    config.KafkaConfig{Topic: "compose-events"},
		Log:      config.LogConfig{Level: "info"},
	}
}

func TestNewHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler, producer, err := NewHandler(testConfig())
	require.NoError(t, err)
	defer producer.Close()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewHandlerMissingFont(t *testing.T) {
	cfg := testConfig()
	cfg.Composer.AssetsDir = t.TempDir()
	cfg.Composer.FontPath = "arialbd.ttf"

	_, _, err := NewHandler(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrFontLoad))
}
