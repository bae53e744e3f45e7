package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sort"
	"testing"

	"github.com/disintegration/imaging"
)

func encodeColorPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 40, B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Optimized page does not decode: %v", err)
	}
	return img
}

func TestOptimizeFitsScreen(t *testing.T) {
	device := Device{Name: "test", Width: 100, Height: 150, Grayscale: true}
	out, err := NewPageOptimizer(device).Optimize(encodeColorPNG(t, 400, 300))
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	b := decode(t, out).Bounds()
	if b.Dx() != 100 || b.Dy() != 75 {
		t.Errorf("Expected 100x75 page, got %dx%d", b.Dx(), b.Dy())
	}
	if !bytes.HasPrefix(out, []byte{0xFF, 0xD8}) {
		t.Error("Expected JPEG output")
	}
}

func TestOptimizeDoesNotUpscale(t *testing.T) {
	device := Device{Name: "test", Width: 1000, Height: 1000}
	out, err := NewPageOptimizer(device).Optimize(encodeColorPNG(t, 40, 60))
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if b := decode(t, out).Bounds(); b.Dx() != 40 || b.Dy() != 60 {
		t.Errorf("Expected 40x60 page, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestOptimizeGrayscale(t *testing.T) {
	device := Device{Name: "test", Width: 64, Height: 64, Grayscale: true}
	out, err := NewPageOptimizer(device).Optimize(encodeColorPNG(t, 32, 32))
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	img := decode(t, out)
	r, g, b, _ := img.At(16, 16).RGBA()
	// JPEG chroma subsampling may leave a small difference between channels
	if diff(r, g) > 0x0400 || diff(g, b) > 0x0400 {
		t.Errorf("Expected a gray pixel, got r=%d g=%d b=%d", r>>8, g>>8, b>>8)
	}
}

func TestOptimizeRejectsGarbage(t *testing.T) {
	if _, err := NewPageOptimizer(Devices["kindle-basic"]).Optimize([]byte("nope")); err == nil {
		t.Error("Expected error for undecodable page")
	}
}

func TestDeviceIDs(t *testing.T) {
	ids := DeviceIDs()
	if len(ids) != len(Devices) {
		t.Fatalf("Expected %d ids, got %d", len(Devices), len(ids))
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("Expected sorted ids, got %v", ids)
	}
	for _, id := range ids {
		d, ok := LookupDevice(id)
		if !ok || d.Width <= 0 || d.Height <= 0 {
			t.Errorf("Invalid profile for %s: %+v", id, d)
		}
	}
	if _, ok := LookupDevice("kindle-9000"); ok {
		t.Error("Expected unknown device lookup to fail")
	}
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
