package renderer

import (
	"image/draw"

	"github.com/ByLCY/cinestrip/layout"
	"github.com/ByLCY/cinestrip/scene"
)

// 字幕效果的固定参数。
const (
	// MaskAlpha 是字幕带半透明黑色遮罩的不透明度。
	MaskAlpha = 0.4
	// ShadowAlpha 是阴影相对于对应颜色的不透明度。
	ShadowAlpha = 0.5
	// StrokeWidthRatio 与 ShadowBlurRatio 均相对字号。
	StrokeWidthRatio = 0.08
	ShadowBlurRatio  = 0.1
)

// CaptionRenderer 在 surface 的 band 区域内绘制一条字幕：遮罩、描边、填充，
// 文本水平、垂直居中于 band。遮罩只覆盖 band，字形与阴影可以越出 band。
type CaptionRenderer interface {
	RenderCaption(surface draw.Image, text string, band layout.Rect, style scene.StyleOptions) error
}

// Metrics 是由样式与图像宽度推导出的绘制尺寸（像素）。
type Metrics struct {
	FontSize    float64
	StrokeWidth float64
	ShadowBlur  float64
}

// Measure 计算字号等尺寸。字号相对图像宽度而不是字幕带高度。
func Measure(imageWidth float64, style scene.StyleOptions) Metrics {
	size := imageWidth * style.FontSizeRatio
	if size < 0 {
		size = 0
	}
	return Metrics{
		FontSize:    size,
		StrokeWidth: size * StrokeWidthRatio,
		ShadowBlur:  size * ShadowBlurRatio,
	}
}
