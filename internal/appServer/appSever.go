// launching the server, fonts, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/imagecomposer/config"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/kafka"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/processor"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/storage"
	"github.com/ds124wfegd/imagecomposer/internal/service"
	"github.com/ds124wfegd/imagecomposer/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// SetupLogging configures the global logrus logger.
func SetupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// NewHandler wires fonts, the processor, the event producer and the routes.
// The returned producer must be closed by the caller.
func NewHandler(cfg *config.Config) (http.Handler, kafka.Producer, error) {
	assets := storage.NewFileStorage(cfg.Composer.AssetsDir)
	fonts, err := processor.NewFontManager(assets, cfg.Composer.FontPath)
	if err != nil {
		return nil, nil, err
	}
	logrus.WithField("font", fonts.Source()).Info("Caption font loaded")

	producer := kafka.NewProducer(kafka.Config{
		Enabled: cfg.Kafka.Enabled,
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})

	imgProcessor := processor.NewImageProcessor(fonts)
	imgService := service.NewImageService(producer, imgProcessor)
	imgHandler := transport.NewImageHandler(imgService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := transport.InitRoutes(imgHandler, transport.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})
	return router, producer, nil
}

func NewServer(cfg *config.Config) {

	SetupLogging(cfg)

	handler, producer, err := NewHandler(cfg)
	if err != nil {
		logrus.Fatalf("cannot initialize composer: %s", err.Error())
	}
	defer producer.Close()

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
