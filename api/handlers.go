package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime"
	"strings"
	"time"

	pdfPkg "pdf_compressor/pdf"

	"github.com/gin-gonic/gin"
)

// HandleCompress runs the per-request pipeline: signature check, file
// extraction, size and MIME validation, then the Ghostscript invocation.
func HandleCompress(c *gin.Context, config *Config, compressor Compressor) {
	signature := c.GetHeader(HeaderSignature)
	timestamp := c.GetHeader(HeaderTimestamp)
	if !VerifySignature(config.SigningSecret, timestamp, signature) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
		return
	}

	environment := c.GetHeader(HeaderEnvironment)
	if environment == "" {
		environment = DefaultEnvironment
	}

	file, header, err := c.Request.FormFile(FormFileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	if int64(len(data)) > config.MaxFileSize {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":        "file exceeds maximum size",
			"maxSize":      config.MaxFileSize,
			"receivedSize": len(data),
		})
		return
	}

	// Declared type only; the bytes themselves are not sniffed.
	if contentType := header.Header.Get("Content-Type"); contentType != "" && !strings.Contains(contentType, "pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a PDF"})
		return
	}

	log.Printf("compress request: env=%s file=%s size=%d", environment, header.Filename, len(data))

	result, err := compressor.Compress(c.Request.Context(), data)
	if err != nil {
		status, payload := classifyCompressError(err)
		c.JSON(status, payload)
		return
	}

	c.Data(http.StatusOK, "application/pdf", result.Output)
}

// classifyCompressError maps the pdf package's error taxonomy onto HTTP
// status codes. Anything unclassified is an internal error.
func classifyCompressError(err error) (int, gin.H) {
	var procErr *pdfPkg.ProcessError
	switch {
	case errors.Is(err, pdfPkg.ErrProcessorNotFound):
		return http.StatusInternalServerError, gin.H{"error": "processor not found"}
	case errors.Is(err, pdfPkg.ErrStorageExhausted):
		return http.StatusInsufficientStorage, gin.H{"error": "insufficient storage"}
	case errors.Is(err, pdfPkg.ErrOutputUnreadable):
		return http.StatusInternalServerError, gin.H{"error": "failed to read output"}
	case errors.As(err, &procErr):
		return http.StatusUnprocessableEntity, gin.H{"error": "processor rejected input", "detail": procErr.Detail}
	default:
		log.Printf("compress failed: %v", err)
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}
}

func HandleHealth(c *gin.Context, config *Config) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "pdf_compressor",
		"uptime":      time.Since(config.StartedAt).Round(time.Second).String(),
		"memoryMB":    mem.Alloc >> 20,
		"maxFileSize": config.MaxFileSize,
		"environment": config.Environment,
	})
}

func HandleCheckGS(c *gin.Context, compressor Compressor) {
	version, err := compressor.Version(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("ghostscript not available: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": version})
}
