package main

import (
	"context"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
	"gradebook/internal/config"
	"gradebook/internal/database"
	"gradebook/internal/handler"
	"gradebook/internal/logging"
	"gradebook/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	logging.Configure(config.LogLevel, config.LogFormat)

	db := database.InitDB()
	services := service.New(db, config.StatsCacheTTL, config.MaxConcurrentImports)

	if err := os.MkdirAll(config.UploadDir, os.ModePerm); err != nil {
		logrus.WithError(err).Fatal("Failed to create uploads directory")
	}

	r := handler.NewRouter(services, config.UploadDir)

	accessLog := logrus.StandardLogger().WriterLevel(logrus.InfoLevel)
	defer accessLog.Close()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{config.CORSOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	srv := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handlers.CombinedLoggingHandler(accessLog, cors(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", config.HTTPAddr).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Shutdown failed")
	}
	logrus.Info("Server stopped")
}
