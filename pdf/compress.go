package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBinary is the Ghostscript executable looked up in PATH
	DefaultBinary = "gs"

	// DefaultCompressTimeout bounds a single compression run
	DefaultCompressTimeout = 120 * time.Second
)

var (
	// ErrProcessorNotFound indicates the Ghostscript binary is not installed
	ErrProcessorNotFound = errors.New("processor not found")

	// ErrStorageExhausted indicates the temp filesystem ran out of space
	ErrStorageExhausted = errors.New("insufficient storage")

	// ErrOutputUnreadable indicates Ghostscript exited cleanly but the output
	// file could not be read back
	ErrOutputUnreadable = errors.New("failed to read output")
)

// ProcessError reports a Ghostscript run that failed on the given input,
// most commonly because the input is corrupt or not a PDF at all.
type ProcessError struct {
	Detail string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("processor rejected input: %s", e.Detail)
}

// Result holds the compressed document and size observability data.
type Result struct {
	Output         []byte
	OriginalSize   int
	CompressedSize int
}

// Reduction returns the size reduction as a percentage of the original.
func (r *Result) Reduction() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return 100 * (1 - float64(r.CompressedSize)/float64(r.OriginalSize))
}

// Compressor invokes Ghostscript to recompress PDFs, exchanging data through
// a per-request temp file pair under TempDir.
type Compressor struct {
	Binary  string
	TempDir string
	Timeout time.Duration
}

// NewCompressor creates a Compressor for the given binary and temp directory.
func NewCompressor(binary, tempDir string, timeout time.Duration) *Compressor {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultCompressTimeout
	}
	return &Compressor{Binary: binary, TempDir: tempDir, Timeout: timeout}
}

// Compress writes input to a temp file, runs Ghostscript against it and reads
// back the compressed result. Both temp files are removed on every return
// path; unlink failures are logged and swallowed so they never mask the
// primary error.
func (g *Compressor) Compress(ctx context.Context, input []byte) (*Result, error) {
	if err := ensureTempDir(g.TempDir); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	inFile, outFile := g.tempPair()
	defer removeQuietly(inFile)
	defer removeQuietly(outFile)

	if err := os.WriteFile(inFile, input, 0600); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return nil, fmt.Errorf("writing temp input: %w", ErrStorageExhausted)
		}
		return nil, fmt.Errorf("writing temp input: %w", err)
	}

	output, err := execCommandWithTimeout(ctx, g.Timeout, g.Binary, compressionArgs(inFile, outFile)...)
	if err != nil {
		if processorMissing(err) {
			return nil, ErrProcessorNotFound
		}
		if errors.Is(err, errCommandTimeout) {
			return nil, &ProcessError{Detail: "processor timed out"}
		}
		return nil, &ProcessError{Detail: processDetail(output, err)}
	}

	compressed, err := os.ReadFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputUnreadable, err)
	}

	result := &Result{
		Output:         compressed,
		OriginalSize:   len(input),
		CompressedSize: len(compressed),
	}
	log.Printf("compressed %d -> %d bytes (%.1f%% reduction)",
		result.OriginalSize, result.CompressedSize, result.Reduction())
	return result, nil
}

// Version reports the installed Ghostscript version.
func (g *Compressor) Version(ctx context.Context) (string, error) {
	output, err := execCommandWithTimeout(ctx, DefaultCLITimeout, g.Binary, "--version")
	if err != nil {
		if processorMissing(err) {
			return "", ErrProcessorNotFound
		}
		return "", fmt.Errorf("version check failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// tempPair derives the input/output paths for one request. UUIDs are
// crypto-random, so concurrent requests cannot collide.
func (g *Compressor) tempPair() (inFile, outFile string) {
	id := uuid.NewString()
	inFile = filepath.Join(g.TempDir, "input_"+id+".pdf")
	outFile = filepath.Join(g.TempDir, "output_"+id+".pdf")
	return inFile, outFile
}

// compressionArgs builds the fixed Ghostscript argument vector. The paths are
// passed as discrete argv entries, never through a shell.
func compressionArgs(inFile, outFile string) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/printer",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dEmbedAllFonts=true",
		"-dSubsetFonts=false",
		"-dCompressFonts=false",
		"-dColorImageResolution=150",
		"-dGrayImageResolution=150",
		"-dMonoImageResolution=300",
		"-sOutputFile=" + outFile,
		inFile,
	}
}

// processorMissing reports whether err means the binary itself could not be
// run. A bare name failing the PATH lookup yields *exec.Error wrapping
// exec.ErrNotFound; a configured absolute path that does not exist surfaces
// as a fork/exec *fs.PathError instead. Both are configuration problems, not
// input rejections.
func processorMissing(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

// processDetail trims Ghostscript's combined output into a short detail
// string for the error payload.
func processDetail(output []byte, err error) string {
	detail := strings.TrimSpace(string(output))
	if detail == "" {
		detail = err.Error()
	}
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}
	return detail
}

// ensureTempDir creates the temp directory if it doesn't exist
func ensureTempDir(tempDir string) error {
	return os.MkdirAll(tempDir, 0755)
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("temp cleanup failed for %s: %v", path, err)
	}
}
