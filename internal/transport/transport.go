package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/transport/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func InitRoutes(imgHandler *ImageHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Request-Id"},
		ExposeHeaders:   []string{"X-Request-Id"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.AddRequestID())
	router.Use(middleware.Logger("/health"))

	compose := []gin.HandlerFunc{
		middleware.CheckContentType(),
		middleware.BodyLimit(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.RequestTimeout),
		imgHandler.ComposeImage,
	}

	// публичный маршрут для существующих клиентов
	router.POST("/gerar_imagem", compose...)

	api := router.Group("/api/v1")
	{
		api.POST("/compose", compose...)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "image-composer",
		})
	})
	return router
}
