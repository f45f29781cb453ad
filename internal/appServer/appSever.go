// launching the server and wiring the image pipeline, queue and providers
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

	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"

	"github.com/antonk9218/imgsuite/config"
	"github.com/antonk9218/imgsuite/internal/pkg/aiapi"
	"github.com/antonk9218/imgsuite/internal/pkg/compressor"
	"github.com/antonk9218/imgsuite/internal/pkg/queue"
	"github.com/antonk9218/imgsuite/internal/pkg/removal"
	"github.com/antonk9218/imgsuite/internal/service"
	"github.com/antonk9218/imgsuite/internal/transport"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	removalClient := removal.NewClient(cfg.Removal.Endpoint, cfg.Removal.Timeout)
	aiClient := aiapi.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.ChatModel, cfg.AI.ImageModel, cfg.AI.Timeout)
	creds := service.NewStaticCredentials(cfg.Removal.APIKey)

	jobQueue := queue.New(removalClient)

	compressService := service.NewCompressService(compressor.NewCompressor())
	queueService := service.NewQueueService(jobQueue, creds, cfg.App.PreviewSize)
	aiService := service.NewAIService(aiClient)

	handler := transport.NewHandler(compressService, queueService, aiService, cfg.App.DefaultQuality, cfg.App.MaxUploadMB)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}
