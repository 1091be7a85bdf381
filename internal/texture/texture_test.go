package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, c)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestIndexAndCache(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 128}
	writePNG(t, filepath.Join(dir, "Body.png"), red)
	writePNG(t, filepath.Join(dir, "sub", "default.png"), blue)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	// Same stem as Body.png; the PNG must win.
	os.WriteFile(filepath.Join(dir, "body.jpg"), []byte("not a jpeg"), 0644)

	idx := BuildIndex(dir)
	if idx.Len() != 2 {
		t.Fatalf("indexed %d textures", idx.Len())
	}
	if p, ok := idx.ResolvePath(`textures\BODY.tga`); !ok || filepath.Base(p) != "Body.png" {
		t.Fatalf("resolve: %s %v", p, ok)
	}

	c := NewCache(idx, "default")
	img := c.Resolve("body")
	if img == nil || img.NRGBAAt(1, 1) != red {
		t.Fatalf("body texture: %v", img)
	}
	if c.Resolve("body") != img {
		t.Fatalf("second resolve should hit the cache")
	}
	if fb := c.Resolve("missing"); fb == nil || fb.NRGBAAt(0, 0) != blue {
		t.Fatalf("fallback texture not used")
	}
	if NewCache(idx, "").Resolve("missing") != nil {
		t.Fatalf("expected nil without fallback")
	}
}

func TestBuildIndexMissingDir(t *testing.T) {
	if BuildIndex(filepath.Join(t.TempDir(), "nope")).Len() != 0 || BuildIndex("").Len() != 0 {
		t.Fatalf("expected empty index")
	}
}

func TestLoadTextureError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	os.WriteFile(path, []byte("garbage"), 0644)
	if _, err := LoadTexture(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadTextureFormats(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{255, 0, 0, 255}

	pngPath := filepath.Join(dir, "a.png")
	writePNG(t, pngPath, red)
	if img, err := LoadTexture(pngPath); err != nil || img.NRGBAAt(0, 0) != red {
		t.Fatalf("png: %v %v", img, err)
	}

	var buf bytes.Buffer
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 128
	}
	if err := jpeg.Encode(&buf, gray, nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	jpgPath := filepath.Join(dir, "b.JPG")
	os.WriteFile(jpgPath, buf.Bytes(), 0644)
	img, err := LoadTexture(jpgPath)
	if err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	if c := img.NRGBAAt(1, 1); c.A != 255 || c.R < 120 || c.R > 136 {
		t.Fatalf("jpeg pixel: %v", c)
	}

	// Uncompressed 2x2 true-colour TGA, BGRA pixels.
	tgaData := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 2, 0, 32, 8}
	for i := 0; i < 4; i++ {
		tgaData = append(tgaData, 255, 0, 0, 255)
	}
	tgaPath := filepath.Join(dir, "c.tga")
	os.WriteFile(tgaPath, tgaData, 0644)
	if img, err := LoadTexture(tgaPath); err != nil || img.NRGBAAt(1, 1) != (color.NRGBA{0, 0, 255, 255}) {
		t.Fatalf("tga: %v %v", img, err)
	}

	if _, err := LoadTexture(filepath.Join(dir, "d.bmp")); err == nil {
		t.Fatalf("expected unknown extension error")
	}
}
