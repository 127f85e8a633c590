package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ByLCY/cinestrip/layout"
	"github.com/ByLCY/cinestrip/renderer"
	canvasrenderer "github.com/ByLCY/cinestrip/renderer/canvas"
	"github.com/ByLCY/cinestrip/scene"
)

var (
	// ErrMissingImage 表示尚未提供原图。
	ErrMissingImage = errors.New("请先选择一张图片")
	// ErrEmptyText 表示显式生成时没有任何非空台词。
	ErrEmptyText = errors.New("请输入至少一行台词")
)

// Composer 把原图与台词合成为纵向堆叠的字幕长图。
// 不持有任何跨调用状态，可以被多个会话共享。
type Composer struct {
	renderer renderer.CaptionRenderer
}

// New 创建合成器，r 为 nil 时使用基于 canvas 的默认渲染器。
func New(r renderer.CaptionRenderer) *Composer {
	if r == nil {
		r = canvasrenderer.NewRenderer()
	}
	return &Composer{renderer: r}
}

// Result 是一次合成的全部产物。
type Result struct {
	Image    *image.RGBA
	Plan     layout.Plan
	Lines    []string
	Data     []byte
	MIMEType string
	Filename string
	// Original 是用于并排对照的原图。
	Original image.Image
}

// Compose 按布局逐行拷贝切片并绘制字幕。lines 原样使用；为空时返回原图的拷贝。
// 每次调用都从头分配画布，相同输入得到相同像素。
func (c *Composer) Compose(img image.Image, lines []string, style scene.StyleOptions) (*image.RGBA, layout.Plan, error) {
	if img == nil {
		return nil, layout.Plan{}, ErrMissingImage
	}
	b := img.Bounds()
	plan := layout.Build(b.Dx(), b.Dy(), len(lines), style.SubtitleHeightRatio)
	w, h := plan.PixelSize()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	if len(plan.Slices) == 0 {
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
		return out, plan, nil
	}
	for i, s := range plan.Slices {
		copySlice(out, img, s)
		if err := c.renderer.RenderCaption(out, lines[i], s.Band, style); err != nil {
			return nil, plan, fmt.Errorf("绘制第 %d 行字幕失败: %w", i+1, err)
		}
	}
	return out, plan, nil
}

// Generate 是显式生成：缺图或没有台词都会报错。
func (c *Composer) Generate(img image.Image, lines []string, style scene.StyleOptions, enc EncodeOptions) (*Result, error) {
	if img == nil {
		return nil, ErrMissingImage
	}
	clean := scene.CleanLines(lines)
	if len(clean) == 0 {
		return nil, ErrEmptyText
	}
	return c.build(img, clean, style, enc)
}

// Preview 是实时预览：台词为空时退化为未加字幕的原图。
func (c *Composer) Preview(img image.Image, lines []string, style scene.StyleOptions, enc EncodeOptions) (*Result, error) {
	if img == nil {
		return nil, ErrMissingImage
	}
	return c.build(img, scene.CleanLines(lines), style, enc)
}

func (c *Composer) build(img image.Image, lines []string, style scene.StyleOptions, enc EncodeOptions) (*Result, error) {
	out, plan, err := c.Compose(img, lines, style)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, out, enc); err != nil {
		return nil, err
	}
	return &Result{
		Image:    out,
		Plan:     plan,
		Lines:    lines,
		Data:     buf.Bytes(),
		MIMEType: enc.MIMEType(),
		Filename: enc.Filename(),
		Original: img,
	}, nil
}

// copySlice 把 s.Source 拷贝到 s.Dest。整数像素位置直接拷贝，
// 小数位置用双线性插值平移。
func copySlice(dst *image.RGBA, src image.Image, s layout.SliceLayout) {
	sb := src.Bounds()
	dx0, dy0, dx1, dy1 := layout.PixelRect(s.Dest)
	target := image.Rect(dx0, dy0, dx1, dy1).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}
	if layout.IsIntegral(s.Dest) && layout.IsIntegral(s.Source) {
		sx0, sy0, _, _ := layout.PixelRect(s.Source)
		draw.Draw(dst, target, src, sb.Min.Add(image.Pt(sx0, sy0)).Add(target.Min.Sub(image.Pt(dx0, dy0))), draw.Src)
		return
	}

	sx0, sy0, sx1, sy1 := layout.PixelRect(s.Source)
	sr := image.Rect(sx0, sy0, sx1, sy1).Add(sb.Min).Intersect(sb)
	s2d := f64.Aff3{
		1, 0, s.Dest.X - s.Source.X - float64(sb.Min.X),
		0, 1, s.Dest.Y - s.Source.Y - float64(sb.Min.Y),
	}
	sub := dst.SubImage(target).(*image.RGBA)
	xdraw.BiLinear.Transform(sub, s2d, src, sr, xdraw.Src, nil)
}
