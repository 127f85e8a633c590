package scene

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"A\nB\nC", []string{"A", "B", "C"}},
		{"  \n\nA\n   \n B \n\n", []string{"A", " B"}},
		{"Hello\r\nWorld\r\n", []string{"Hello", "World"}},
		{"   \n\t\n", nil},
		{"", nil},
	}
	for _, c := range cases {
		if got := SplitLines(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("SplitLines(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestCleanLinesKeepsOrder(t *testing.T) {
	got := CleanLines([]string{"三", "", "  ", "一", "二\r"})
	want := []string{"三", "一", "二"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CleanLines = %#v, want %#v", got, want)
	}
}

func TestParseRatio(t *testing.T) {
	cases := map[string]float64{
		"20%":  0.2,
		"0.2":  0.2,
		"20":   0.2,
		"1":    0.01,
		"5":    0.05,
		"1.0":  1,
		"0.5":  0.5,
		"100":  1,
		"100%": 1,
		"0":    0,
		" 5% ": 0.05,
	}
	for in, want := range cases {
		got, err := ParseRatio(in)
		if err != nil {
			t.Fatalf("ParseRatio(%q) error: %v", in, err)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("ParseRatio(%q) = %g, want %g", in, got, want)
		}
	}
	for _, bad := range []string{"", "abc", "-0.1", "150%", "101"} {
		if _, err := ParseRatio(bad); err == nil {
			t.Fatalf("ParseRatio(%q) 应返回错误", bad)
		}
	}
}

func TestParseFontWeight(t *testing.T) {
	cases := map[string]FontWeight{"normal": 400, "bold": 700, "BOLD": 700, "600": 600, "lighter": 300}
	for in, want := range cases {
		got, err := ParseFontWeight(in)
		if err != nil || got != want {
			t.Fatalf("ParseFontWeight(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if !FontWeight(600).IsBold() || FontWeight(500).IsBold() {
		t.Fatalf("IsBold 阈值应为 600")
	}
	if _, err := ParseFontWeight("heavy-ish"); err == nil {
		t.Fatalf("非法字重应报错")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#fff":            {255, 255, 255, 255},
		"#ff000080":       {255, 0, 0, 128},
		"black":           {0, 0, 0, 255},
		"transparent":     {0, 0, 0, 0},
		"rgb(10, 20, 30)": {10, 20, 30, 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	half, err := ParseColor("rgba(0,0,0,0.5)")
	if err != nil || half.R != 0 || half.A < 127 || half.A > 128 {
		t.Fatalf("rgba 半透明解析错误: %v %v", half, err)
	}
	if _, err := ParseColor("not-a-color"); err == nil {
		t.Fatalf("非法颜色应报错")
	}
	if got := FormatColor(color.NRGBA{R: 255, A: 255}); got != "#ff0000" {
		t.Fatalf("FormatColor = %s", got)
	}
}

func TestStyleSetUnknownKey(t *testing.T) {
	s := DefaultStyle()
	if err := s.Set("line-height", "1.2"); err == nil {
		t.Fatalf("未知键应报错")
	}
	if err := s.Set("font-family", "  "); err == nil {
		t.Fatalf("空字体名应报错")
	}
}

func TestPresetApply(t *testing.T) {
	p, err := ParsePreset([]byte(`
subtitleHeight: "30%"
fontSize: "0.08"
fontWeight: normal
textColor: "#ffee00"
`))
	if err != nil {
		t.Fatalf("ParsePreset error: %v", err)
	}
	base := DefaultStyle()
	got, err := p.Apply(base)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if math.Abs(got.SubtitleHeightRatio-0.3) > 1e-12 || math.Abs(got.FontSizeRatio-0.08) > 1e-12 {
		t.Fatalf("比例未生效: %+v", got)
	}
	if got.FontWeight != FontWeightNormal || got.TextColor != (color.NRGBA{0xff, 0xee, 0x00, 0xff}) {
		t.Fatalf("字重或颜色未生效: %+v", got)
	}
	if got.FontFamily != base.FontFamily || got.OutlineColor != base.OutlineColor {
		t.Fatalf("留空字段不应覆盖: %+v", got)
	}
}

func TestPresetRejectsUnknownField(t *testing.T) {
	if _, err := ParsePreset([]byte("fontColour: red\n")); err == nil {
		t.Fatalf("未知字段应报错")
	}
	if p, err := ParsePreset(nil); err != nil || p != (Preset{}) {
		t.Fatalf("空预设应解析为零值: %+v %v", p, err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.scene")
	src := `scene Demo v1 {
  image "still.png"
  style {
    subtitle-height: 25%
    font-family: "Liberation Serif"
    outline-color: "rgba(0, 0, 0, 0.5)"
  }
  lines {
    "第一句"
    "   "
    "第二句"
  }
  output { format: png; quality: 80; file: "out.png" }
}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("写入场景文件失败: %v", err)
	}

	sc, err := LoadFile(path, DefaultStyle())
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if sc.ImagePath != filepath.Join(dir, "still.png") {
		t.Fatalf("图片路径应相对场景文件解析，实际 %s", sc.ImagePath)
	}
	if got := CleanLines(sc.Lines); !reflect.DeepEqual(got, []string{"第一句", "第二句"}) {
		t.Fatalf("台词解析错误: %#v", sc.Lines)
	}
	if math.Abs(sc.Style.SubtitleHeightRatio-0.25) > 1e-12 || sc.Style.FontFamily != "Liberation Serif" {
		t.Fatalf("样式解析错误: %+v", sc.Style)
	}
	if a := sc.Style.OutlineColor.A; a < 127 || a > 128 {
		t.Fatalf("描边透明度应约为 128，实际 %d", a)
	}
	if sc.Output != (Output{Format: "png", Quality: 80, File: "out.png"}) {
		t.Fatalf("输出设置错误: %+v", sc.Output)
	}
}

func TestParseReportsBadStyle(t *testing.T) {
	_, err := Parse(strings.NewReader(`scene X {
  style {
    font-size: 300%
  }
}`), DefaultStyle())
	if err == nil || !strings.Contains(err.Error(), "第 3 行") {
		t.Fatalf("应报告出错行号，实际 %v", err)
	}
}
