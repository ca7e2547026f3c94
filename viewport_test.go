package layerlib

import (
	"errors"
	"math"
	"testing"
)

func TestComputeViewportCenter(t *testing.T) {
	// minX=0, maxX=10, minY=0, maxY=20
	vp, err := ComputeViewport([4]float64{0, 10, 0, 20})
	if err != nil {
		t.Fatal(err)
	}
	if vp.Center != ([2]float64{10, 5}) {
		t.Fatalf("center = %v, want (10,5)", vp.Center)
	}
	again, _ := ComputeViewport([4]float64{0, 10, 0, 20})
	if again != vp {
		t.Fatalf("not idempotent: %v vs %v", again, vp)
	}
}

func TestComputeViewportTranslation(t *testing.T) {
	span := [4]float64{0, 10, 0, 20}
	vp, err := ComputeViewport(span)
	if err != nil {
		t.Fatal(err)
	}
	const off = 7.5
	moved, err := ComputeViewport([4]float64{span[0] + off, span[1] + off, span[2] + off, span[3] + off})
	if err != nil {
		t.Fatal(err)
	}
	if moved.Zoom != vp.Zoom {
		t.Fatalf("zoom changed under translation: %d vs %d", moved.Zoom, vp.Zoom)
	}
	if moved.Center != ([2]float64{vp.Center[0] + off, vp.Center[1] + off}) {
		t.Fatalf("center = %v, want %v translated by %v", moved.Center, vp.Center, off)
	}
}

func TestComputeViewportDegenerate(t *testing.T) {
	for _, span := range [][4]float64{
		{0, 0, 0, 0},
		{5, 5, 0, 10},
		{0, 10, 3, 3},
		{10, 0, 0, 10},
		{0, math.NaN(), 0, 10},
	} {
		if _, err := ComputeViewport(span); !errors.Is(err, ErrEmptyGeometry) {
			t.Fatalf("span %v: err = %v, want ErrEmptyGeometry", span, err)
		}
	}
}

func TestEstimateZoomWorld(t *testing.T) {
	if z := EstimateZoom([4]float64{-180, 180, -90, 90}); z != 0 {
		t.Fatalf("world zoom = %d, want 0", z)
	}
}

func TestEstimateZoomHalving(t *testing.T) {
	// 每缩小一半，级别加一
	if z := EstimateZoom([4]float64{0, 180, 0, 90}); z != 1 {
		t.Fatalf("half-world zoom = %d, want 1", z)
	}
	if z := EstimateZoom([4]float64{0, 90, 0, 45}); z != 2 {
		t.Fatalf("quarter-world zoom = %d, want 2", z)
	}
}

func TestEstimateZoomClamp(t *testing.T) {
	if z := EstimateZoom([4]float64{0, 1e-9, 0, 1e-9}); z != MAX_ZOOM {
		t.Fatalf("tiny span zoom = %d, want %d", z, MAX_ZOOM)
	}
	if z := EstimateZoom([4]float64{-400, 400, -90, 90}); z != MIN_ZOOM {
		t.Fatalf("oversized span zoom = %d, want %d", z, MIN_ZOOM)
	}
}
