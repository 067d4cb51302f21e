package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pdf_compressor/api"
	"pdf_compressor/pdf"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (25 MiB)
	DefaultMaxFileSize = 25 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// DefaultGSTimeoutSeconds bounds one Ghostscript invocation
	DefaultGSTimeoutSeconds = 120

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 60 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 180 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	secret := os.Getenv("SIGNING_SECRET")
	if secret == "" {
		log.Fatal("SIGNING_SECRET must be set")
	}

	config := &api.Config{
		Port:          getEnv("PORT", DefaultPort),
		MaxFileSize:   getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		TempDir:       getEnv("TEMP_DIR", os.TempDir()),
		SigningSecret: []byte(secret),
		Environment:   getEnv("ENVIRONMENT", api.DefaultEnvironment),
		StartedAt:     time.Now(),
	}

	compressor := pdf.NewCompressor(
		getEnv("GS_BINARY", pdf.DefaultBinary),
		config.TempDir,
		time.Duration(getEnvInt64("GS_TIMEOUT_SECONDS", DefaultGSTimeoutSeconds))*time.Second,
	)

	// Missing Ghostscript is not fatal here; requests report it as 500 and
	// /check-gs exposes it for diagnostics.
	if version, err := compressor.Version(context.Background()); err != nil {
		log.Printf("WARNING: Ghostscript not available: %v", err)
	} else {
		log.Printf("Ghostscript %s is available", version)
	}

	r := gin.Default()
	api.SetupRoutes(r, config, compressor)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		log.Printf("Max file size: %d bytes", config.MaxFileSize)
		log.Printf("Temp directory: %s", config.TempDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
