package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

// TestBuildThreeLines 覆盖 800×600、比例 0.2、三行台词的场景。
func TestBuildThreeLines(t *testing.T) {
	plan := Build(800, 600, 3, 0.2)

	if !near(plan.SliceHeight, 120) {
		t.Fatalf("sliceHeight 期望 120，实际 %g", plan.SliceHeight)
	}
	if !near(plan.CanvasWidth, 800) || !near(plan.CanvasHeight, 840) {
		t.Fatalf("画布尺寸期望 800×840，实际 %g×%g", plan.CanvasWidth, plan.CanvasHeight)
	}
	if w, h := plan.PixelSize(); w != 800 || h != 840 {
		t.Fatalf("像素尺寸期望 800×840，实际 %d×%d", w, h)
	}
	if len(plan.Slices) != 3 {
		t.Fatalf("期望 3 个切片，实际 %d", len(plan.Slices))
	}

	wantCenters := []float64{540, 660, 780}
	for i, s := range plan.Slices {
		_, cy := s.Band.Center()
		if !near(cy, wantCenters[i]) {
			t.Fatalf("第 %d 个字幕带中心 y 期望 %g，实际 %g", i, wantCenters[i], cy)
		}
		if !near(s.Band.Height, 120) || !near(s.Band.Width, 800) {
			t.Fatalf("第 %d 个字幕带尺寸错误: %+v", i, s.Band)
		}
	}

	first := plan.Slices[0]
	if first.Dest != (Rect{0, 0, 800, 600}) || first.Source != first.Dest {
		t.Fatalf("第 0 个切片应覆盖整张原图，实际 dest=%+v source=%+v", first.Dest, first.Source)
	}
}

// TestBuildSingleLine 验证单行台词不会增加画布高度。
func TestBuildSingleLine(t *testing.T) {
	plan := Build(800, 600, 1, 0.3)
	if w, h := plan.PixelSize(); w != 800 || h != 600 {
		t.Fatalf("单行时画布应保持 800×600，实际 %d×%d", w, h)
	}
	if len(plan.Slices) != 1 {
		t.Fatalf("期望 1 个切片，实际 %d", len(plan.Slices))
	}
	band := plan.Slices[0].Band
	if !near(band.Y, 420) || !near(band.Bottom(), 600) {
		t.Fatalf("字幕带应覆盖 y∈[420,600]，实际 [%g,%g]", band.Y, band.Bottom())
	}
}

// TestRepeatedSlicesShareSource 验证 i≥1 的切片高度一致、来源一致，仅位置不同。
func TestRepeatedSlicesShareSource(t *testing.T) {
	plan := Build(640, 480, 6, 0.25)
	src := plan.Slices[1].Source
	if src != (Rect{0, 360, 640, 120}) {
		t.Fatalf("来源切片应为原图底部 120px，实际 %+v", src)
	}
	for i := 1; i < len(plan.Slices); i++ {
		s := plan.Slices[i]
		if s.Source != src {
			t.Fatalf("第 %d 个切片来源不同: %+v", i, s.Source)
		}
		if !near(s.Dest.Height, plan.SliceHeight) {
			t.Fatalf("第 %d 个切片高度 %g != %g", i, s.Dest.Height, plan.SliceHeight)
		}
		wantY := 480 + float64(i-1)*120
		if !near(s.Dest.Y, wantY) {
			t.Fatalf("第 %d 个切片 y 期望 %g，实际 %g", i, wantY, s.Dest.Y)
		}
		if s.Band != s.Dest {
			t.Fatalf("第 %d 个切片的字幕带应与目标区域一致", i)
		}
	}
}

// TestCanvasHeightProperty 对一组尺寸与比例验证 H + (n-1)·H·r。
func TestCanvasHeightProperty(t *testing.T) {
	ratios := []float64{0.05, 0.1, 0.2, 0.33, 0.5, 1}
	sizes := [][2]int{{1, 1}, {800, 600}, {1920, 1080}, {333, 777}}
	for _, sz := range sizes {
		for _, r := range ratios {
			for n := 1; n <= 5; n++ {
				plan := Build(sz[0], sz[1], n, r)
				h := float64(sz[1])
				want := h + float64(n-1)*h*r
				if math.Abs(plan.CanvasHeight-want) > 1e-6 {
					t.Fatalf("W=%d H=%d r=%g n=%d: 高度期望 %g，实际 %g", sz[0], sz[1], r, n, want, plan.CanvasHeight)
				}
				if plan.CanvasWidth != float64(sz[0]) {
					t.Fatalf("宽度应保持 %d，实际 %g", sz[0], plan.CanvasWidth)
				}
				if len(plan.Slices) != n {
					t.Fatalf("切片数量期望 %d，实际 %d", n, len(plan.Slices))
				}
			}
		}
	}
}

// TestBuildDegenerate 覆盖 lineCount=0 与比例为 0 的退化输入。
func TestBuildDegenerate(t *testing.T) {
	plan := Build(800, 600, 0, 0.2)
	if len(plan.Slices) != 0 {
		t.Fatalf("lineCount=0 时不应有切片")
	}
	if w, h := plan.PixelSize(); w != 800 || h != 600 {
		t.Fatalf("lineCount=0 应退化为原图尺寸，实际 %d×%d", w, h)
	}

	plan = Build(800, 600, 4, 0)
	if w, h := plan.PixelSize(); w != 800 || h != 600 {
		t.Fatalf("比例为 0 时画布应保持原图尺寸，实际 %d×%d", w, h)
	}
	for _, s := range plan.Slices[1:] {
		if !s.Band.Empty() {
			t.Fatalf("比例为 0 时字幕带应为空: %+v", s.Band)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build(1024, 768, 4, 0.17)
	b := Build(1024, 768, 4, 0.17)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("相同输入应得到相同布局")
	}
}

func TestPixelRect(t *testing.T) {
	x0, y0, x1, y1 := PixelRect(Rect{X: 0, Y: 10.5, Width: 100, Height: 20.2})
	if x0 != 0 || y0 != 10 || x1 != 100 || y1 != 31 {
		t.Fatalf("PixelRect 结果错误: %d %d %d %d", x0, y0, x1, y1)
	}
	if !IsIntegral(Rect{0, 120, 800, 120}) {
		t.Fatalf("整数矩形应判定为对齐")
	}
	if IsIntegral(Rect{0, 120.5, 800, 120}) {
		t.Fatalf("非整数矩形不应判定为对齐")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := WriteDebugJSON(Build(800, 600, 2, 0.2), path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var got Plan
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("解析调试 JSON 失败: %v", err)
	}
	if len(got.Slices) != 2 || !near(got.CanvasHeight, 720) {
		t.Fatalf("调试 JSON 内容不符: %+v", got)
	}
}
