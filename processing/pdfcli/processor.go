package pdfcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/gateway"
	"github.com/skillsenselab/filevault/keys"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/metadata"
	"github.com/skillsenselab/filevault/process"
	"github.com/skillsenselab/filevault/processing"
	"github.com/skillsenselab/filevault/resilience"
)

// Storage is the object transfer surface the processor needs.
// *gateway.Gateway satisfies it.
type Storage interface {
	Download(ctx context.Context, key string) (*gateway.DownloadResult, error)
	Upload(ctx context.Context, key string, data []byte, meta gateway.UploadMetadata) (*gateway.UploadResult, error)
	CDNURL(storageKey string) string
}

// Processor handles application/pdf through external tools.
type Processor struct {
	store  Storage
	runner *process.Runner
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
}

// New creates a PDF processor. The circuit breaker guards against a
// repeatedly crashing toolchain.
func New(store Storage, cfg Config, log *logger.Logger) *Processor {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	runner := process.NewRunner(
		process.WithCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:        "pdf-tools",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
	)
	return &Processor{
		store:  store,
		runner: runner,
		cfg:    cfg,
		log:    log.WithComponent("pdfcli"),
		now:    time.Now,
	}
}

// Process extracts document metadata, renders page previews and produces a
// compressed rendition. Compression failure degrades to a warning.
func (p *Processor) Process(ctx context.Context, file *metadata.FileMetadata) (*processing.Result, error) {
	workDir, localPath, cleanup, err := p.fetch(ctx, file)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &processing.Result{
		ExtractedMetadata: map[string]any{"processingType": "pdf"},
	}

	pages, info, err := p.inspect(ctx, localPath)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeCommandTimeout) {
			return nil, err
		}
		result.Warnings = append(result.Warnings, "PDF_INFO_FAILED")
		p.log.Warn("pdfinfo failed", logger.ErrorFields("pdfinfo", err))
	} else {
		result.ExtractedMetadata["pages"] = pages
		for k, v := range info {
			result.ExtractedMetadata[k] = v
		}
	}

	previews, err := p.renderPreviews(ctx, file, workDir, localPath, pages)
	if err != nil {
		return nil, err
	}
	if len(previews) > 0 {
		result.ExtractedMetadata["previewPages"] = previews
	}

	if optimizedURL, compressErr := p.compress(ctx, file, workDir, localPath); compressErr != nil {
		result.Warnings = append(result.Warnings, "PDF_COMPRESSION_FAILED")
		p.log.Warn("ghostscript compression failed", logger.ErrorFields("gs", compressErr))
	} else {
		result.Optimizations = append(result.Optimizations, "compressed_pdf")
		result.ExtractedMetadata["optimizedUrl"] = optimizedURL
	}

	return result, nil
}

// GenerateThumbnail renders the first page scaled to the requested size.
func (p *Processor) GenerateThumbnail(ctx context.Context, file *metadata.FileMetadata, size string) (string, error) {
	workDir, localPath, cleanup, err := p.fetch(ctx, file)
	if err != nil {
		return "", err
	}
	defer cleanup()

	outPrefix := filepath.Join(workDir, "thumb")
	args := []string{"-jpeg", "-singlefile", "-f", "1", "-l", "1"}
	if width := sizeWidth(size); width > 0 {
		args = append(args, "-scale-to", strconv.Itoa(width))
	}
	args = append(args, localPath, outPrefix)

	if _, err := p.runner.Run(ctx, process.Command{
		Binary:  p.cfg.PDFToPPM,
		Args:    args,
		Timeout: p.cfg.Timeout,
	}); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outPrefix + ".jpg")
	if err != nil {
		return "", errors.ProcessingFailed(file.ID, "thumbnail", "pdftoppm produced no output", err)
	}

	key := keys.Thumbnail(file.ID, size, "jpeg", p.now())
	if _, err := p.upload(ctx, file, key, data, "image/jpeg"); err != nil {
		return "", err
	}
	return p.store.CDNURL(key), nil
}

// fetch downloads the PDF into a scratch directory.
func (p *Processor) fetch(ctx context.Context, file *metadata.FileMetadata) (workDir, localPath string, cleanup func(), err error) {
	downloaded, err := p.store.Download(ctx, file.StorageKey)
	if err != nil {
		return "", "", nil, err
	}
	workDir, err = os.MkdirTemp("", "pdfcli-*")
	if err != nil {
		return "", "", nil, errors.ProcessingFailed(file.ID, "pdf_processing", "scratch dir creation failed", err)
	}
	localPath = filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(localPath, downloaded.Body, 0o600); err != nil {
		os.RemoveAll(workDir)
		return "", "", nil, errors.ProcessingFailed(file.ID, "pdf_processing", "scratch file write failed", err)
	}
	return workDir, localPath, func() { os.RemoveAll(workDir) }, nil
}

// inspect runs pdfinfo and parses page count plus selected fields.
func (p *Processor) inspect(ctx context.Context, localPath string) (int, map[string]any, error) {
	out, err := p.runner.Run(ctx, process.Command{
		Binary:  p.cfg.PDFInfo,
		Args:    []string{localPath},
		Timeout: p.cfg.Timeout,
	})
	if err != nil {
		return 0, nil, err
	}

	pages := 0
	info := make(map[string]any)
	for _, line := range strings.Split(string(out.Stdout), "\n") {
		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(field) {
		case "Pages":
			pages, _ = strconv.Atoi(value)
		case "Title":
			if value != "" {
				info["title"] = value
			}
		case "Author":
			if value != "" {
				info["author"] = value
			}
		case "Encrypted":
			info["encrypted"] = strings.HasPrefix(value, "yes")
		}
	}
	if pages == 0 {
		return 0, nil, fmt.Errorf("pdfinfo reported no pages")
	}
	return pages, info, nil
}

// renderPreviews produces per-page JPEG previews under
// {fileId}/preview/page-{n}-{dpi}dpi.jpg.
func (p *Processor) renderPreviews(ctx context.Context, file *metadata.FileMetadata, workDir, localPath string, pages int) ([]string, error) {
	count := p.cfg.PreviewPages
	if pages > 0 && pages < count {
		count = pages
	}

	var urls []string
	for page := 1; page <= count; page++ {
		outPrefix := filepath.Join(workDir, fmt.Sprintf("page-%d", page))
		if _, err := p.runner.Run(ctx, process.Command{
			Binary: p.cfg.PDFToPPM,
			Args: []string{
				"-jpeg", "-singlefile",
				"-r", strconv.Itoa(p.cfg.PreviewDPI),
				"-f", strconv.Itoa(page), "-l", strconv.Itoa(page),
				localPath, outPrefix,
			},
			Timeout: p.cfg.Timeout,
		}); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(outPrefix + ".jpg")
		if err != nil {
			return nil, errors.ProcessingFailed(file.ID, "pdf_processing", "pdftoppm produced no output", err)
		}
		key := keys.PDFPreviewPage(file.ID, page, p.cfg.PreviewDPI)
		if _, err := p.upload(ctx, file, key, data, "image/jpeg"); err != nil {
			return nil, err
		}
		urls = append(urls, p.store.CDNURL(key))
	}
	return urls, nil
}

// compress produces a Ghostscript-compressed rendition under
// {fileId}/optimized/pdf/{timestamp}.
func (p *Processor) compress(ctx context.Context, file *metadata.FileMetadata, workDir, localPath string) (string, error) {
	outPath := filepath.Join(workDir, "compressed.pdf")
	if _, err := p.runner.Run(ctx, process.Command{
		Binary: p.cfg.Ghostscript,
		Args: []string{
			"-sDEVICE=pdfwrite",
			"-dPDFSETTINGS=" + p.cfg.CompressionLevel,
			"-dNOPAUSE", "-dBATCH", "-dQUIET",
			"-o", outPath,
			localPath,
		},
		Timeout: p.cfg.Timeout,
	}); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("ghostscript produced no output: %w", err)
	}
	key := keys.Optimized(file.ID, "pdf", p.now())
	if _, err := p.upload(ctx, file, key, data, "application/pdf"); err != nil {
		return "", err
	}
	return p.store.CDNURL(key), nil
}

func (p *Processor) upload(ctx context.Context, file *metadata.FileMetadata, key string, data []byte, contentType string) (*gateway.UploadResult, error) {
	userID := file.UserID
	if userID == "" {
		userID = "system"
	}
	return p.store.Upload(ctx, key, data, gateway.UploadMetadata{
		ContentType: contentType,
		UserID:      userID,
		Extra:       map[string]string{"source-file": file.ID},
	})
}

// sizeWidth parses the width out of a "200x200" style size string.
func sizeWidth(size string) int {
	width, _, found := strings.Cut(size, "x")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(width)
	if err != nil {
		return 0
	}
	return n
}
