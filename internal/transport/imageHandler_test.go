package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/kafka"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/processor"
	"github.com/ds124wfegd/imagecomposer/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err       error
	requestID string
	deadline  bool
}

func (s *stubService) Compose(ctx context.Context, requestID string, _ entity.ComposeRequest) (*entity.ComposeResponse, error) {
	s.requestID = requestID
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	return &entity.ComposeResponse{ImageBase64: "aGVsbG8=", Width: 8, Height: 10, FontSize: 60, Lines: 1}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(router http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validBody = `{"imagem_base64":"abc","logo_base64":"def","texto":"hi"}`

func TestComposeImageStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "ok", body: validBody, wantStatus: http.StatusOK},
		{name: "malformed json", body: `{"imagem_base64":`, wantStatus: http.StatusBadRequest},
		{name: "missing logo", body: `{"imagem_base64":"abc","texto":"hi"}`, wantStatus: http.StatusBadRequest},
		{name: "decode error", body: validBody, serviceErr: fmt.Errorf("logo_base64: %w: bad", entity.ErrDecode), wantStatus: http.StatusBadRequest},
		{name: "image error", body: validBody, serviceErr: fmt.Errorf("%w: tiny", entity.ErrImage), wantStatus: http.StatusUnprocessableEntity},
		{name: "font error", body: validBody, serviceErr: fmt.Errorf("%w: missing", entity.ErrFontLoad), wantStatus: http.StatusInternalServerError},
		{name: "timeout", body: validBody, serviceErr: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout},
		{name: "unknown error", body: validBody, serviceErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := InitRoutes(NewImageHandler(&stubService{err: tt.serviceErr}), RouterConfig{})

			w := doJSON(router, "/api/v1/compose", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "aGVsbG8=", body["imagem_base64"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestComposeImageRoutesAndHeaders(t *testing.T) {
	stub := &stubService{}
	router := InitRoutes(NewImageHandler(stub), RouterConfig{RequestTimeout: time.Minute})

	t.Run("legacy route", func(t *testing.T) {
		w := doJSON(router, "/gerar_imagem", validBody, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		assert.Equal(t, w.Header().Get("X-Request-Id"), stub.requestID)
		assert.True(t, stub.deadline, "timeout middleware sets a deadline")
	})

	t.Run("request id is propagated", func(t *testing.T) {
		w := doJSON(router, "/api/v1/compose", validBody, map[string]string{"X-Request-Id": "abc-123"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
		assert.Equal(t, "abc-123", stub.requestID)
	})

	t.Run("wrong content type", func(t *testing.T) {
		w := doJSON(router, "/api/v1/compose", validBody, map[string]string{"Content-Type": "text/plain"})
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})
}

func TestComposeImageBindingError(t *testing.T) {
	router := InitRoutes(NewImageHandler(&stubService{}), RouterConfig{})
	w := doJSON(router, "/gerar_imagem", `{"texto":"hi"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["error"], entity.ErrInvalidInput.Error()), body["error"])
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: missing field", entity.ErrInvalidInput), want: http.StatusBadRequest},
		{err: fmt.Errorf("imagem_base64: %w", entity.ErrDecode), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: 2x1", entity.ErrImage), want: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("%w: arialbd.ttf", entity.ErrFontLoad), want: http.StatusInternalServerError},
		{err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{err: context.Canceled, want: http.StatusRequestTimeout},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestComposeImageBodyLimit(t *testing.T) {
	router := InitRoutes(NewImageHandler(&stubService{}), RouterConfig{MaxBodyBytes: 32})

	w := doJSON(router, "/api/v1/compose", validBody, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// TestComposeImageEndToEnd проверяет полный путь запроса через настоящий сервис
func TestComposeImageEndToEnd(t *testing.T) {
	fonts, err := processor.NewFontManager(nil, "")
	require.NoError(t, err)
	svc := service.NewImageService(kafka.NewProducer(kafka.Config{}), processor.NewImageProcessor(fonts))
	router := InitRoutes(NewImageHandler(svc), RouterConfig{RequestTimeout: time.Minute, MaxBodyBytes: 32 << 20})

	encode := func(w, h int, c color.NRGBA) string {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, imaging.New(w, h, c)))
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	body, err := json.Marshal(entity.ComposeRequest{
		ImageBase64: encode(1000, 1000, color.NRGBA{R: 120, G: 130, B: 140, A: 255}),
		LogoBase64:  encode(300, 100, color.NRGBA{R: 255, G: 255, A: 255}),
		Text:        "Hello World",
	})
	require.NoError(t, err)

	w := doJSON(router, "/gerar_imagem", string(body), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp entity.ComposeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 800, resp.Width)
	assert.Equal(t, 1000, resp.Height)
	assert.Equal(t, 60, resp.FontSize)

	data, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	require.NoError(t, err)
	out, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 1000), out.Bounds())

	t.Run("undecodable photo", func(t *testing.T) {
		body := `{"imagem_base64":"data:image/png;base64,bm90IGFuIGltYWdl","logo_base64":"bm9wZQ==","texto":"x"}`
		w := doJSON(router, "/gerar_imagem", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "imagem_base64")
	})
}
