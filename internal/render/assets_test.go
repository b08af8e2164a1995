package render

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/motionforge/api/internal/model"
)

func testConfig(srcs ...string) *model.CreativeConfiguration {
	cfg := &model.CreativeConfiguration{}
	for _, s := range srcs {
		cfg.Screenshots = append(cfg.Screenshots, model.Screenshot{Src: s})
	}
	return cfg
}

func TestPlaceDownloadsValidImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat(tinyPNG, 3))
	}))
	defer srv.Close()

	projectDir := t.TempDir()
	cfg := testConfig(srv.URL + "/shots/hero.png")

	NewAssetPlacer().Place(context.Background(), cfg, projectDir)

	if cfg.Screenshots[0].Src != "hero.png" {
		t.Fatalf("src not rewritten to local filename: %q", cfg.Screenshots[0].Src)
	}
	for _, p := range []string{
		filepath.Join(projectDir, "public", "hero.png"),
		filepath.Join(projectDir, "public", "public", "hero.png"),
	} {
		content, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("asset not written at %s: %v", p, err)
		}
		if !isRasterImage(content) {
			t.Fatalf("written asset at %s is not an image", p)
		}
	}
}

func TestPlaceFallsBackOnErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not found but with a 200 status and enough bytes to pass the size check, padded padded padded padded</body></html>"))
	}))
	defer srv.Close()

	projectDir := t.TempDir()
	cfg := testConfig(srv.URL + "/broken.png")

	NewAssetPlacer().Place(context.Background(), cfg, projectDir)

	content, err := os.ReadFile(filepath.Join(projectDir, "public", "broken.png"))
	if err != nil {
		t.Fatalf("fallback asset not written: %v", err)
	}
	if !bytes.Equal(content, tinyPNG) {
		t.Fatal("expected fallback PNG for non-image content")
	}
	if cfg.Screenshots[0].Src != "broken.png" {
		t.Fatalf("src not rewritten: %q", cfg.Screenshots[0].Src)
	}
}

func TestPlaceSubstitutesPlaceholderForImplausibleSrc(t *testing.T) {
	// No server: the placeholder URL is unreachable in tests, so the
	// fallback PNG gets written under the placeholder's derived name.
	projectDir := t.TempDir()
	cfg := testConfig("x")

	NewAssetPlacer().Place(context.Background(), cfg, projectDir)

	src := cfg.Screenshots[0].Src
	if src == "x" || src == "" {
		t.Fatalf("implausible src not replaced: %q", src)
	}
	if !fileExists(filepath.Join(projectDir, "public", src)) {
		t.Fatalf("no local asset written for %q", src)
	}
}

func TestPlaceUpgradesProtocolRelativeURL(t *testing.T) {
	// A protocol-relative URL must be treated as https, not as invalid.
	projectDir := t.TempDir()
	cfg := testConfig("//127.0.0.1:1/img/shot.png")

	NewAssetPlacer().Place(context.Background(), cfg, projectDir)

	if cfg.Screenshots[0].Src != "shot.png" {
		t.Fatalf("protocol-relative URL not resolved to its basename: %q", cfg.Screenshots[0].Src)
	}
	content, err := os.ReadFile(filepath.Join(projectDir, "public", "shot.png"))
	if err != nil {
		t.Fatalf("fallback not written: %v", err)
	}
	if !bytes.Equal(content, tinyPNG) {
		t.Fatal("unreachable host should yield the fallback PNG")
	}
}

func TestPlaceIsIdempotent(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(bytes.Repeat(tinyPNG, 3))
	}))
	defer srv.Close()

	projectDir := t.TempDir()
	cfg := testConfig(srv.URL + "/hero.png")
	placer := NewAssetPlacer()

	placer.Place(context.Background(), cfg, projectDir)
	placer.Place(context.Background(), cfg, projectDir)

	if hits != 1 {
		t.Fatalf("expected 1 download, got %d", hits)
	}
	if cfg.Screenshots[0].Src != "hero.png" {
		t.Fatalf("second pass corrupted src: %q", cfg.Screenshots[0].Src)
	}
}

func TestFilenameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/img/hero.png", "hero.png"},
		{"https://example.com/img/he ro!.png", "hero.png"},
	}
	for _, c := range cases {
		if got := filenameFromURL(c.url); got != c.want {
			t.Errorf("filenameFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}

	// No usable basename: synthesize a stable hashed name.
	a := filenameFromURL("https://example.com/")
	b := filenameFromURL("https://example.com/")
	if a != b {
		t.Fatalf("hashed names not stable: %q vs %q", a, b)
	}
	if filepath.Ext(a) != ".png" {
		t.Fatalf("hashed name missing extension: %q", a)
	}
}
