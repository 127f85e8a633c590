package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestPxPtConversions 验证像素与字号换算：1 画布毫米 == 1 像素。
func TestPxPtConversions(t *testing.T) {
	for _, px := range []float64{1, 12, 50, 123.4} {
		if got := PtToPx(PxToPt(px)); math.Abs(got-px) > 1e-9 {
			t.Fatalf("px→pt→px 往返误差: in=%g back=%g", px, got)
		}
	}
	if got := PxToPt(PtToMm); math.Abs(got-1) > 1e-9 {
		t.Fatalf("%gpx 应为 1pt，实际 %g", PtToMm, got)
	}
}
