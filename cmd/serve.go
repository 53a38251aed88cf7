package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "docman/handler/http"
	"docman/src/log"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document management HTTP server",
	Long: `The serve command starts an HTTP server handling document uploads,
document queries and question answering. Uploaded documents are published to
the work queue and processed by a separate worker.`,
	Run: RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer(cmd *cobra.Command, args []string) {
	db, err := openDatabase()
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	amqpPublisher, err := newAMQPPublisher(watermill.NewStdLogger(false, false))
	if err != nil {
		log.Error(err, "Failed to create AMQP publisher")
		return
	}
	defer amqpPublisher.Close()

	svcs, err := buildServices(context.Background(), db, amqpPublisher)
	if err != nil {
		log.Error(err, "Failed to build services")
		return
	}

	documentHandler := httpHdlr.NewDocumentHandler(svcs.ingest, svcs.docs)
	qaHandler := httpHdlr.NewQAHandler(svcs.qa)

	// Setup gin router
	r := gin.Default()

	// Register routes
	api := r.Group("/api/v1")
	api.POST("/documents", documentHandler.Upload)
	api.GET("/documents", documentHandler.List)
	api.GET("/documents/:id", documentHandler.Get)
	api.DELETE("/documents/:id", documentHandler.Delete)
	api.POST("/documents/process", documentHandler.ProcessBatch)
	api.POST("/documents/:id/reprocess", documentHandler.Reprocess)
	api.POST("/qa/question", qaHandler.Ask)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Close database connection
	if sqlDB, err := db.DB(); err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else if err := sqlDB.Close(); err != nil {
		log.Error(err, "Error closing database connection")
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
