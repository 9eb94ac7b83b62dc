package magick

import "testing"

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Convert != "convert" || cfg.Identify != "identify" {
		t.Errorf("unexpected tool defaults: %+v", cfg)
	}
	if cfg.Quality != 82 || cfg.WebFormat != "webp" {
		t.Errorf("unexpected rendition defaults: quality=%d format=%s", cfg.Quality, cfg.WebFormat)
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
		"image/tiff": ".tiff",
		"image/jpeg": ".jpg",
		"image/bmp":  ".jpg",
	}
	for contentType, want := range cases {
		if got := extensionFor(contentType); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", contentType, got, want)
		}
	}
}
