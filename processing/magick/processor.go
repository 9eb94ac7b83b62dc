package magick

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

// Default configuration values.
const (
	DefaultConvert   = "convert"
	DefaultIdentify  = "identify"
	DefaultTimeout   = 30 * time.Second
	DefaultQuality   = 82
	DefaultWebFormat = "webp"
)

// Config holds ImageMagick tool configuration.
type Config struct {
	// Convert is the convert binary, resolved via PATH when bare.
	Convert string `mapstructure:"convert" json:"convert"`

	// Identify is the identify binary.
	Identify string `mapstructure:"identify" json:"identify"`

	// Timeout bounds each tool invocation.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// Quality is the output quality for optimized renditions.
	Quality int `mapstructure:"quality" json:"quality"`

	// WebFormat is the optimized rendition format.
	WebFormat string `mapstructure:"web_format" json:"web_format"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Convert == "" {
		c.Convert = DefaultConvert
	}
	if c.Identify == "" {
		c.Identify = DefaultIdentify
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Quality <= 0 {
		c.Quality = DefaultQuality
	}
	if c.WebFormat == "" {
		c.WebFormat = DefaultWebFormat
	}
}

// Storage is the object transfer surface the processor needs.
// *gateway.Gateway satisfies it.
type Storage interface {
	Download(ctx context.Context, key string) (*gateway.DownloadResult, error)
	Upload(ctx context.Context, key string, data []byte, meta gateway.UploadMetadata) (*gateway.UploadResult, error)
	CDNURL(storageKey string) string
}

// Processor handles image/* content through ImageMagick.
type Processor struct {
	store  Storage
	runner *process.Runner
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
}

// New creates an image processor.
func New(store Storage, cfg Config, log *logger.Logger) *Processor {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	runner := process.NewRunner(
		process.WithCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:        "imagemagick",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
	)
	return &Processor{
		store:  store,
		runner: runner,
		cfg:    cfg,
		log:    log.WithComponent("magick"),
		now:    time.Now,
	}
}

// Process extracts dimensions and produces an optimized web rendition.
// The rendition step is best-effort.
func (p *Processor) Process(ctx context.Context, file *metadata.FileMetadata) (*processing.Result, error) {
	workDir, localPath, cleanup, err := p.fetch(ctx, file)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &processing.Result{
		ExtractedMetadata: map[string]any{"processingType": "image"},
	}

	width, height, err := p.dimensions(ctx, localPath)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeCommandTimeout) {
			return nil, err
		}
		result.Warnings = append(result.Warnings, "IMAGE_IDENTIFY_FAILED")
		p.log.Warn("identify failed", logger.ErrorFields("identify", err))
	} else {
		result.ExtractedMetadata["width"] = width
		result.ExtractedMetadata["height"] = height
	}

	if optimizedURL, optErr := p.optimize(ctx, file, workDir, localPath); optErr != nil {
		result.Warnings = append(result.Warnings, "IMAGE_OPTIMIZATION_FAILED")
		p.log.Warn("web rendition failed", logger.ErrorFields("convert", optErr))
	} else {
		result.Optimizations = append(result.Optimizations, p.cfg.WebFormat+"_rendition")
		result.ExtractedMetadata["optimizedUrl"] = optimizedURL
	}

	return result, nil
}

// GenerateThumbnail produces a JPEG thumbnail at the requested size.
func (p *Processor) GenerateThumbnail(ctx context.Context, file *metadata.FileMetadata, size string) (string, error) {
	workDir, localPath, cleanup, err := p.fetch(ctx, file)
	if err != nil {
		return "", err
	}
	defer cleanup()

	outPath := filepath.Join(workDir, "thumb.jpg")
	if _, err := p.runner.Run(ctx, process.Command{
		Binary: p.cfg.Convert,
		Args: []string{
			localPath,
			"-auto-orient",
			"-thumbnail", size + "^",
			"-gravity", "center",
			"-extent", size,
			outPath,
		},
		Timeout: p.cfg.Timeout,
	}); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", errors.ProcessingFailed(file.ID, "thumbnail", "convert produced no output", err)
	}

	key := keys.Thumbnail(file.ID, size, "jpeg", p.now())
	if _, err := p.upload(ctx, file, key, data, "image/jpeg"); err != nil {
		return "", err
	}
	return p.store.CDNURL(key), nil
}

func (p *Processor) fetch(ctx context.Context, file *metadata.FileMetadata) (workDir, localPath string, cleanup func(), err error) {
	downloaded, err := p.store.Download(ctx, file.StorageKey)
	if err != nil {
		return "", "", nil, err
	}
	workDir, err = os.MkdirTemp("", "magick-*")
	if err != nil {
		return "", "", nil, errors.ProcessingFailed(file.ID, "image_processing", "scratch dir creation failed", err)
	}
	localPath = filepath.Join(workDir, "input"+extensionFor(file.ContentType))
	if err := os.WriteFile(localPath, downloaded.Body, 0o600); err != nil {
		os.RemoveAll(workDir)
		return "", "", nil, errors.ProcessingFailed(file.ID, "image_processing", "scratch file write failed", err)
	}
	return workDir, localPath, func() { os.RemoveAll(workDir) }, nil
}

// dimensions runs identify and parses "WIDTH HEIGHT".
func (p *Processor) dimensions(ctx context.Context, localPath string) (int, int, error) {
	out, err := p.runner.Run(ctx, process.Command{
		Binary:  p.cfg.Identify,
		Args:    []string{"-format", "%w %h", localPath},
		Timeout: p.cfg.Timeout,
	})
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(string(out.Stdout))
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("identify output %q not parseable", out.Stdout)
	}
	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// optimize produces a stripped, recompressed rendition under
// {fileId}/optimized/{format}/{timestamp}.
func (p *Processor) optimize(ctx context.Context, file *metadata.FileMetadata, workDir, localPath string) (string, error) {
	outPath := filepath.Join(workDir, "optimized."+p.cfg.WebFormat)
	if _, err := p.runner.Run(ctx, process.Command{
		Binary: p.cfg.Convert,
		Args: []string{
			localPath,
			"-strip",
			"-quality", strconv.Itoa(p.cfg.Quality),
			outPath,
		},
		Timeout: p.cfg.Timeout,
	}); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("convert produced no output: %w", err)
	}
	key := keys.Optimized(file.ID, p.cfg.WebFormat, p.now())
	if _, err := p.upload(ctx, file, key, data, "image/"+p.cfg.WebFormat); err != nil {
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

// extensionFor picks a scratch-file extension so the tools sniff the
// right decoder.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/tiff":
		return ".tiff"
	default:
		return ".jpg"
	}
}
