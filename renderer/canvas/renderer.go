package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/blur"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/cinestrip/fonts"
	"github.com/ByLCY/cinestrip/layout"
	"github.com/ByLCY/cinestrip/renderer"
	"github.com/ByLCY/cinestrip/scene"
)

// Renderer draws captions via github.com/tdewolff/canvas.
//
// Every layer of a caption (mask, stroke shadow, stroke, fill shadow, fill) is
// drawn on its own canvas and composited onto the surface, so a call never
// leaves drawing state behind for the next one. Only loaded font families are
// cached.
type Renderer struct {
	// injected resources, keyed by lower-cased family name
	fontRes map[string]Resource

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
	fallbackFam  map[bool]*canvas.FontFamily
}

var _ renderer.CaptionRenderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Fonts map[string]Resource // extra families, addressable by name in font-family
}

// Resource can be provided either by Bytes or by Path. A Path of the form
// "embed:<family>" refers to a built-in font.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that only knows the built-in fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected font resources.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontRes:      map[string]Resource{},
		fontFamilies: map[string]*canvas.FontFamily{},
		fallbackFam:  map[bool]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		r.fontRes[key] = res
	}
	return r
}

// RenderCaption 在 band 内绘制遮罩与字幕。坐标以 surface.Bounds().Min 为原点，
// 与 layout.Rect 一致为左上角原点、y 轴向下。
func (r *Renderer) RenderCaption(surface draw.Image, text string, band layout.Rect, style scene.StyleOptions) error {
	if surface == nil {
		return fmt.Errorf("渲染目标为空")
	}
	if band.Empty() {
		return nil
	}
	m := renderer.Measure(band.Width, style)
	frame := newFrame(surface.Bounds(), band, m)
	if frame.region.Empty() {
		return nil
	}

	// 1. 半透明遮罩
	mask := frame.layer()
	mask.ctx.SetFillColor(color.NRGBA{A: alpha8(renderer.MaskAlpha)})
	mask.ctx.DrawPath(frame.x(band.X), frame.y(band.Bottom()), canvas.Rectangle(band.Width, band.Height))
	frame.composite(surface, mask, 0)

	if strings.TrimSpace(text) == "" || m.FontSize <= 0 {
		return nil
	}

	face, err := r.fontFace(style.FontFamily, style.FontWeight.IsBold(), m.FontSize)
	if err != nil {
		return err
	}
	glyphs, advance, err := face.ToPath(text)
	if err != nil {
		return fmt.Errorf("生成字形 %q 失败: %w", text, err)
	}

	// 水平居中；基线取 middle：字形上升部与下降部的中点落在 band 中线上。
	metrics := face.Metrics()
	cx, cy := band.Center()
	x := frame.x(cx - advance/2)
	y := frame.y(cy + (metrics.Ascent-math.Abs(metrics.Descent))/2)

	// 2. 先描边（阴影在下），再填充（阴影在下）
	if m.StrokeWidth > 0 && style.OutlineColor.A > 0 {
		for _, shadow := range []bool{true, false} {
			l := frame.layer()
			l.ctx.SetFillColor(canvas.Transparent)
			l.ctx.SetStrokeColor(paint(style.OutlineColor, shadow))
			l.ctx.SetStrokeWidth(m.StrokeWidth)
			l.ctx.SetStrokeJoiner(canvas.RoundJoin)
			l.ctx.DrawPath(x, y, glyphs)
			frame.composite(surface, l, shadowRadius(m, shadow))
		}
	}
	if style.TextColor.A > 0 {
		for _, shadow := range []bool{true, false} {
			l := frame.layer()
			l.ctx.SetFillColor(paint(style.TextColor, shadow))
			l.ctx.DrawPath(x, y, glyphs)
			frame.composite(surface, l, shadowRadius(m, shadow))
		}
	}
	return nil
}

// frame 是一次调用的绘制区域：band 上下各留出足够容纳字形与阴影的余量，
// 横向覆盖整幅 surface，最终裁剪到 surface 范围内。
type frame struct {
	bounds image.Rectangle
	region image.Rectangle
}

func newFrame(bounds image.Rectangle, band layout.Rect, m renderer.Metrics) frame {
	margin := int(math.Ceil(m.FontSize*1.5 + m.StrokeWidth + 3*m.ShadowBlur + 2))
	_, y0, _, y1 := layout.PixelRect(band)
	region := image.Rect(bounds.Min.X, bounds.Min.Y+y0-margin, bounds.Max.X, bounds.Min.Y+y1+margin)
	return frame{bounds: bounds, region: region.Intersect(bounds)}
}

// x 与 y 把 surface 坐标（左上角原点）换算为图层画布坐标（左下角原点，y 轴向上）。
func (f frame) x(v float64) float64 { return v - float64(f.region.Min.X-f.bounds.Min.X) }

func (f frame) y(v float64) float64 {
	return float64(f.region.Dy()) - (v - float64(f.region.Min.Y-f.bounds.Min.Y))
}

type layer struct {
	c   *canvas.Canvas
	ctx *canvas.Context
}

func (f frame) layer() layer {
	c := canvas.New(float64(f.region.Dx()), float64(f.region.Dy()))
	return layer{c: c, ctx: canvas.NewContext(c)}
}

// composite 栅格化图层（1 mm = 1 px），按需模糊后以 source-over 叠加到 surface。
func (f frame) composite(surface draw.Image, l layer, radius float64) {
	var img image.Image = rasterizer.Draw(l.c, canvas.DPMM(layout.DotsPerMM), canvas.DefaultColorSpace)
	if radius > 0 {
		img = blur.Gaussian(img, radius)
	}
	draw.Draw(surface, f.region, img, img.Bounds().Min, draw.Over)
}

// shadowRadius 返回阴影层的模糊半径，非阴影层为 0。
func shadowRadius(m renderer.Metrics, shadow bool) float64 {
	if !shadow {
		return 0
	}
	return m.ShadowBlur
}

// paint 返回图层颜色；阴影为黑色，透明度按所投影颜色的透明度缩放。
func paint(c color.NRGBA, shadow bool) color.Color {
	if !shadow {
		return c
	}
	return color.NRGBA{A: alpha8(renderer.ShadowAlpha * float64(c.A) / 255)}
}

func alpha8(a float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
}

func (r *Renderer) fontFace(familyList string, bold bool, sizePx float64) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(familyList, bold)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(sizePx), canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(familyList string, bold bool) (*canvas.FontFamily, error) {
	name, data, err := r.resolveFont(familyList, bold)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%t", name, bold)

	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		fallback, fbErr := r.fallback(bold)
		if fbErr != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
		r.fontFamilies[key] = fallback
		return fallback, nil
	}
	r.fontFamilies[key] = family
	return family, nil
}

// resolveFont 依次尝试 font-family 列表中的每一项：先查注入的字体，再查内置字体。
func (r *Renderer) resolveFont(familyList string, bold bool) (string, []byte, error) {
	for _, name := range fonts.SplitFamilyList(familyList) {
		if res, ok := r.fontRes[strings.ToLower(name)]; ok {
			data, err := loadResource(res, bold)
			if err != nil {
				return "", nil, fmt.Errorf("字体 %s: %w", name, err)
			}
			return name, data, nil
		}
		if f, ok := fonts.Lookup(name); ok {
			return f.Name, f.Face(bold), nil
		}
	}
	f := fonts.Default()
	return f.Name, f.Face(bold), nil
}

func loadResource(res Resource, bold bool) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("缺少字体数据")
	}
	if strings.HasPrefix(res.Path, "embed:") {
		return fonts.Load(res.Path, bold)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件失败: %w", err)
	}
	return data, nil
}

// fallback 在字体数据无法解析时使用，调用方须持有 fontMu。
func (r *Renderer) fallback(bold bool) (*canvas.FontFamily, error) {
	if family, ok := r.fallbackFam[bold]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily("cinestrip-fallback")
	if err := family.LoadFont(fonts.Default().Face(bold), 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFam[bold] = family
	return family, nil
}

// toPt 将像素（即画布毫米）转换为点(pt)。
func toPt(px float64) float64 { return layout.PxToPt(px) }
