package api

import (
	"context"
	"time"

	pdfPkg "pdf_compressor/pdf"

	"github.com/gin-gonic/gin"
)

// Config holds application configuration, built once at startup and treated
// as immutable afterwards.
type Config struct {
	Port          string
	MaxFileSize   int64
	TempDir       string
	SigningSecret []byte
	Environment   string
	StartedAt     time.Time
}

// Compressor is the document-processing operation behind POST /compress.
type Compressor interface {
	Compress(ctx context.Context, input []byte) (*pdfPkg.Result, error)
	Version(ctx context.Context) (string, error)
}

func SetupRoutes(r *gin.Engine, config *Config, compressor Compressor) {
	r.GET("/health", func(c *gin.Context) { HandleHealth(c, config) })
	r.GET("/check-gs", func(c *gin.Context) { HandleCheckGS(c, compressor) })
	r.POST("/compress", func(c *gin.Context) { HandleCompress(c, config, compressor) })
}
