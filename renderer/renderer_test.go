package renderer

import (
	"math"
	"testing"

	"github.com/ByLCY/cinestrip/scene"
)

func TestMeasureScalesWithWidth(t *testing.T) {
	style := scene.DefaultStyle()
	m := Measure(1000, style)
	if math.Abs(m.FontSize-50) > 1e-9 {
		t.Fatalf("字号应为 50，实际 %g", m.FontSize)
	}
	if math.Abs(m.StrokeWidth-4) > 1e-9 || math.Abs(m.ShadowBlur-5) > 1e-9 {
		t.Fatalf("描边/模糊尺寸错误: %+v", m)
	}

	// 字幕带高度不影响字号
	style.SubtitleHeightRatio = 0.5
	if Measure(1000, style).FontSize != m.FontSize {
		t.Fatalf("字号不应随字幕带高度变化")
	}
}

func TestMeasureZeroRatio(t *testing.T) {
	style := scene.DefaultStyle()
	style.FontSizeRatio = 0
	if m := Measure(800, style); m != (Metrics{}) {
		t.Fatalf("比例为 0 时尺寸应全为 0: %+v", m)
	}
}
