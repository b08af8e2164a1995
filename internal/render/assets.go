package render

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	placeholderURL = "https://placehold.co/1920x1080/CCCCCC/666666.png?text=No+Image+Available"

	// Downloads smaller than this are assumed to be error pages, not images.
	minAssetBytes = 100
	// Values shorter than this cannot plausibly be a URL or filename.
	minPlausibleSrc = 5
)

var filenameSafe = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// tinyPNG is a minimal valid 1x1 gray PNG used whenever a download cannot
// produce a real image, so the renderer never sees a broken asset reference.
var tinyPNG = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xde,
	0x00, 0x00, 0x00, 0x0c, 'I', 'D', 'A', 'T',
	0x78, 0x9c, 0x63, 0x60, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01,
	0x2e, 0x1b, 0xe0, 0x1c,
	0x00, 0x00, 0x00, 0x00, 'I', 'E', 'N', 'D', 0xae, 0x42, 0x60, 0x82,
}

// standardAssets are the showcase template's fixed background images,
// refreshed into public/ before every templated render.
var standardAssets = map[string]string{
	"studio_ui.png":      "https://placehold.co/1920x1080/1E88E5/FFFFFF.png?text=MotionForge+Studio+UI",
	"export_feature.png": "https://placehold.co/1920x1080/42A5F5/FFFFFF.png?text=Export+Feature",
	"analytics.png":      "https://placehold.co/1920x1080/66BB6A/FFFFFF.png?text=Analytics+Dashboard",
}

// ImageVisitable is a configuration record exposing its fixed set of
// image-bearing fields for in-place rewriting.
type ImageVisitable interface {
	ImageSources() []*string
}

// AssetPlacer downloads every image a configuration references into a
// project's public/ directory and rewrites the references to local
// filenames. It never fails: every bad source degrades to placeholder
// content instead of propagating.
type AssetPlacer struct {
	httpClient *http.Client
}

func NewAssetPlacer() *AssetPlacer {
	return &AssetPlacer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Place visits every image-bearing field of cfg, materializes a local copy
// under projectDir/public/, and rewrites the field to the local filename.
// Running it over an already-placed configuration is a no-op.
func (p *AssetPlacer) Place(ctx context.Context, cfg ImageVisitable, projectDir string) {
	for _, src := range cfg.ImageSources() {
		v := strings.TrimSpace(*src)

		// Already placed on a previous pass.
		if v != "" && !strings.Contains(v, "://") && !strings.HasPrefix(v, "//") &&
			fileExists(filepath.Join(projectDir, "public", v)) {
			continue
		}

		if len(v) < minPlausibleSrc {
			log.Printf("[assets] Warning: implausible image source %q, using placeholder", v)
			v = placeholderURL
		}
		if strings.HasPrefix(v, "//") {
			v = "https:" + v
		}
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			log.Printf("[assets] Warning: invalid image source %q, using placeholder", v)
			v = placeholderURL
		}

		filename, err := p.placeOne(ctx, projectDir, v)
		if err != nil {
			log.Printf("[assets] Warning: could not save asset for %q: %v", v, err)
			continue
		}
		*src = filename
	}
}

// PlaceStandardAssets refreshes the fixed showcase backgrounds. Failures are
// ignored; the template ships with fallbacks.
func (p *AssetPlacer) PlaceStandardAssets(ctx context.Context, projectDir string) {
	publicDir := filepath.Join(projectDir, "public")
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return
	}
	for filename, assetURL := range standardAssets {
		content, ok := p.download(ctx, assetURL)
		if !ok {
			continue
		}
		_ = os.WriteFile(filepath.Join(publicDir, filename), content, 0o644)
	}
}

// placeOne downloads one URL and writes the bytes (or the fallback PNG)
// under public/ and public/public/. The nested copy tolerates ambiguity in
// how the renderer resolves static-file paths.
func (p *AssetPlacer) placeOne(ctx context.Context, projectDir, assetURL string) (string, error) {
	filename := filenameFromURL(assetURL)

	content := tinyPNG
	if got, ok := p.download(ctx, assetURL); ok {
		content = got
	}

	publicDir := filepath.Join(projectDir, "public")
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(publicDir, filename), content, 0o644); err != nil {
		return "", err
	}

	nestedDir := filepath.Join(publicDir, "public")
	if err := os.MkdirAll(nestedDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(nestedDir, filename), content, 0o644); err != nil {
		return "", err
	}

	return filename, nil
}

// download fetches a URL and returns its bytes only when they look like a
// real raster image.
func (p *AssetPlacer) download(ctx context.Context, assetURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[assets] Warning: download error (%v), using placeholder", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[assets] Warning: download failed (%d), using placeholder", resp.StatusCode)
		return nil, false
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[assets] Warning: read error (%v), using placeholder", err)
		return nil, false
	}

	if len(content) <= minAssetBytes || !isRasterImage(content) {
		log.Printf("[assets] Warning: %d bytes of non-PNG/JPG content, using fallback", len(content))
		return nil, false
	}
	return content, true
}

func isRasterImage(content []byte) bool {
	isPNG := bytes.HasPrefix(content, []byte{0x89, 'P', 'N', 'G'})
	isJPG := bytes.HasPrefix(content, []byte{0xff, 0xd8})
	return isPNG || isJPG
}

// filenameFromURL derives a filesystem-safe filename from a URL path,
// synthesizing a hashed name when the path has no usable basename.
func filenameFromURL(assetURL string) string {
	var base string
	if parsed, err := url.Parse(assetURL); err == nil {
		base = path.Base(parsed.Path)
	}
	base = filenameSafe.ReplaceAllString(base, "")

	if base == "" || base == "." || base == "/" || !strings.Contains(base, ".") {
		h := fnv.New32a()
		h.Write([]byte(assetURL))
		return fmt.Sprintf("asset_%08x.png", h.Sum32())
	}
	return base
}
