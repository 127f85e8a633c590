package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// ParseRatio 解析比例值，接受三种写法：
//   - "20%"：百分比；
//   - "0.2"：小数；
//   - "20"：不带小数点的整数与滑块一致，视为百分比，"1" 即 1%。
//
// 带小数点且大于 1 的数字同样按百分比处理。结果必须落在 [0,1]，0 是允许的退化值。
func ParseRatio(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("比例不能为空")
	}
	percent := strings.HasSuffix(v, "%")
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析比例 %q", value)
	}
	integer := !strings.ContainsAny(v, ".eE")
	if percent || integer || f > 1 {
		f /= 100
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("比例 %q 超出范围 [0, 1]", value)
	}
	return f, nil
}

// ParseFontWeight 解析 CSS 字重：normal、bold、bolder、lighter 或 1–1000 的数字。
func ParseFontWeight(value string) (FontWeight, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "normal", "regular":
		return FontWeightNormal, nil
	case "bold", "bolder":
		return FontWeightBold, nil
	case "lighter":
		return 300, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("无法解析字重 %q", value)
	}
	return FontWeight(n), nil
}

// ParseColor 解析 CSS 颜色：#rgb、#rrggbb、rgba()、hsl()、颜色名以及 transparent。
func ParseColor(value string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(strings.TrimSpace(value))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// FormatColor 把颜色输出为 #rrggbb 或 #rrggbbaa。
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
