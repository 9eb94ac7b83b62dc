package pdfcli

import "time"

// Default configuration values.
const (
	DefaultPDFToPPM         = "pdftoppm"
	DefaultPDFInfo          = "pdfinfo"
	DefaultGhostscript      = "gs"
	DefaultTimeout          = 60 * time.Second
	DefaultPreviewDPI       = 150
	DefaultPreviewPages     = 3
	DefaultCompressionLevel = "/ebook"
)

// Config holds PDF tool configuration.
type Config struct {
	// PDFToPPM is the pdftoppm binary, resolved via PATH when bare.
	PDFToPPM string `mapstructure:"pdftoppm" json:"pdftoppm"`

	// PDFInfo is the pdfinfo binary.
	PDFInfo string `mapstructure:"pdfinfo" json:"pdfinfo"`

	// Ghostscript is the gs binary.
	Ghostscript string `mapstructure:"ghostscript" json:"ghostscript"`

	// Timeout bounds each tool invocation.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// PreviewDPI is the render resolution for page previews.
	PreviewDPI int `mapstructure:"preview_dpi" json:"preview_dpi"`

	// PreviewPages caps how many pages get a preview image.
	PreviewPages int `mapstructure:"preview_pages" json:"preview_pages"`

	// CompressionLevel is the Ghostscript -dPDFSETTINGS value.
	CompressionLevel string `mapstructure:"compression_level" json:"compression_level"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.PDFToPPM == "" {
		c.PDFToPPM = DefaultPDFToPPM
	}
	if c.PDFInfo == "" {
		c.PDFInfo = DefaultPDFInfo
	}
	if c.Ghostscript == "" {
		c.Ghostscript = DefaultGhostscript
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PreviewDPI <= 0 {
		c.PreviewDPI = DefaultPreviewDPI
	}
	if c.PreviewPages <= 0 {
		c.PreviewPages = DefaultPreviewPages
	}
	if c.CompressionLevel == "" {
		c.CompressionLevel = DefaultCompressionLevel
	}
}
