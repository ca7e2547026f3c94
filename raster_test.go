package layerlib

import (
	"math"
	"testing"
)

func TestCornerBoundsIdentity(t *testing.T) {
	gt := [6]float64{0, 1, 0, 0, 0, 1}
	b := cornerBounds(gt, 10, 10)
	want := LayerBounds{{0, 0}, {10, 10}}
	if b != want {
		t.Fatalf("bounds = %v, want %v", b, want)
	}
	if again := cornerBounds(gt, 10, 10); again != b {
		t.Fatalf("cornerBounds not idempotent: %v vs %v", again, b)
	}
}

func TestCornerBoundsAffine(t *testing.T) {
	gt := [6]float64{100, 0.5, 0, 50, 0, -0.25}
	b := cornerBounds(gt, 4, 8)
	want := LayerBounds{{100, 50}, {102, 48}}
	if b != want {
		t.Fatalf("bounds = %v, want %v", b, want)
	}
}

func TestGridFromEnvelope(t *testing.T) {
	gt, w, h := gridFromEnvelope([4]float64{0, 10, 0, 10}, 10, 10)
	if w != 10 || h != 10 {
		t.Fatalf("size = %dx%d, want 10x10", w, h)
	}
	want := [6]float64{0, 1, 0, 10, 0, -1}
	if gt != want {
		t.Fatalf("gt = %v, want %v", gt, want)
	}
	// 推算出的网格角点应回到包络角点
	b := cornerBounds(gt, w, h)
	if b != (LayerBounds{{0, 10}, {10, 0}}) {
		t.Fatalf("corner bounds = %v", b)
	}
}

func TestAlphaMask(t *testing.T) {
	band := []float64{0, 42, 1e8, 1e8 + 1, -2e8, math.NaN(), 255}
	mask := alphaMask(band)
	want := []uint8{255, 255, 255, 0, 0, 0, 255}
	if len(mask) != len(want) {
		t.Fatalf("mask len = %d", len(mask))
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Fatalf("mask[%d] = %d, want %d (v=%v)", i, mask[i], want[i], band[i])
		}
	}
	for _, v := range mask {
		if v != ALPHA_OPAQUE && v != ALPHA_TRANSPARENT {
			t.Fatalf("mask has value %d outside {0,255}", v)
		}
	}
}

func TestNormalizeBandsPad(t *testing.T) {
	b0 := []float64{1, 2, 3}
	bands := normalizeBands([][]float64{b0}, 4)
	if len(bands) != 4 {
		t.Fatalf("bands len = %d, want 4", len(bands))
	}
	for i, b := range bands {
		if &b[0] != &b0[0] {
			t.Fatalf("band %d is not reprojected band 0", i)
		}
	}
}

func TestNormalizeBandsTrim(t *testing.T) {
	in := [][]float64{{1}, {2}, {3}, {4}, {5}}
	bands := normalizeBands(in, 3)
	if len(bands) != 3 {
		t.Fatalf("bands len = %d, want 3", len(bands))
	}
}

func TestNormalizeBandsExact(t *testing.T) {
	in := [][]float64{{1}, {2}, {3}}
	bands := normalizeBands(in, 3)
	if len(bands) != 3 {
		t.Fatalf("bands len = %d, want 3", len(bands))
	}
	for i := range in {
		if &bands[i][0] != &in[i][0] {
			t.Fatalf("band %d changed", i)
		}
	}
}

func TestBandToByte(t *testing.T) {
	in := []float64{-5, 0, 254.9, 300, math.NaN(), 128}
	want := []uint8{0, 0, 254, 255, 0, 128}
	out := bandToByte(in)
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestDensifyEdgesEnvelope(t *testing.T) {
	xs, ys := densifyEdges([4]float64{-10, -5, 10, 5}, GRID_EDGE_POINTS)
	if len(xs) != len(ys) || len(xs) == 0 {
		t.Fatalf("bad sample count %d/%d", len(xs), len(ys))
	}
	env := envelope(xs, ys)
	if env != ([4]float64{-10, 10, -5, 5}) {
		t.Fatalf("envelope = %v", env)
	}
}
