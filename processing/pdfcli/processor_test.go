package pdfcli

import "testing"

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.PDFToPPM != "pdftoppm" || cfg.PDFInfo != "pdfinfo" || cfg.Ghostscript != "gs" {
		t.Errorf("unexpected tool defaults: %+v", cfg)
	}
	if cfg.PreviewDPI != 150 || cfg.PreviewPages != 3 {
		t.Errorf("unexpected preview defaults: dpi=%d pages=%d", cfg.PreviewDPI, cfg.PreviewPages)
	}
	if cfg.CompressionLevel != "/ebook" {
		t.Errorf("unexpected compression level %q", cfg.CompressionLevel)
	}
}

func TestSizeWidth(t *testing.T) {
	cases := map[string]int{
		"200x200": 200,
		"64x48":   64,
		"banana":  0,
		"x200":    0,
	}
	for size, want := range cases {
		if got := sizeWidth(size); got != want {
			t.Errorf("sizeWidth(%q) = %d, want %d", size, got, want)
		}
	}
}
