package scene

import (
	"fmt"
	"image/color"
	"strings"
)

// FontWeight 采用 CSS 数值字重（100–900）。
type FontWeight int

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

// IsBold 与浏览器一致：600 及以上选用粗体字面。
func (w FontWeight) IsBold() bool { return w >= 600 }

func (w FontWeight) String() string {
	switch w {
	case FontWeightNormal:
		return "normal"
	case FontWeightBold:
		return "bold"
	default:
		return fmt.Sprintf("%d", int(w))
	}
}

// StyleOptions 是一次渲染的字幕样式，按值传递，渲染过程中不会被修改。
//
// SubtitleHeightRatio 相对原图高度，FontSizeRatio 相对原图宽度。两者基准不同
// 是有意保留的行为：字号随画面宽度缩放，不随字幕带高度变化。
type StyleOptions struct {
	SubtitleHeightRatio float64     `json:"subtitleHeightRatio"`
	FontSizeRatio       float64     `json:"fontSizeRatio"`
	FontWeight          FontWeight  `json:"fontWeight"`
	FontFamily          string      `json:"fontFamily"`
	TextColor           color.NRGBA `json:"textColor"`
	OutlineColor        color.NRGBA `json:"outlineColor"`
}

// DefaultStyle 返回未配置时使用的样式。
func DefaultStyle() StyleOptions {
	return StyleOptions{
		SubtitleHeightRatio: 0.2,
		FontSizeRatio:       0.05,
		FontWeight:          FontWeightBold,
		FontFamily:          "sans-serif",
		TextColor:           color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		OutlineColor:        color.NRGBA{A: 0xff},
	}
}

// 样式键名，DSL、YAML 预设与命令行共用同一套解析。
const (
	KeySubtitleHeight = "subtitle-height"
	KeyFontSize       = "font-size"
	KeyFontWeight     = "font-weight"
	KeyFontFamily     = "font-family"
	KeyTextColor      = "text-color"
	KeyOutlineColor   = "outline-color"
)

// StyleKeys 按固定顺序列出全部样式键。
var StyleKeys = []string{
	KeySubtitleHeight,
	KeyFontSize,
	KeyFontWeight,
	KeyFontFamily,
	KeyTextColor,
	KeyOutlineColor,
}

// Set 按键名解析 value 并写入样式。
func (s *StyleOptions) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case KeySubtitleHeight:
		r, err := ParseRatio(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.SubtitleHeightRatio = r
	case KeyFontSize:
		r, err := ParseRatio(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.FontSizeRatio = r
	case KeyFontWeight:
		w, err := ParseFontWeight(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.FontWeight = w
	case KeyFontFamily:
		family := strings.TrimSpace(value)
		if family == "" {
			return fmt.Errorf("%s: 字体名不能为空", key)
		}
		s.FontFamily = family
	case KeyTextColor:
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.TextColor = c
	case KeyOutlineColor:
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.OutlineColor = c
	default:
		return fmt.Errorf("未知的样式属性 %q", key)
	}
	return nil
}
