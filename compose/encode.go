package compose

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// 输出格式。
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// DefaultQuality 是 JPEG 的默认编码质量。
const DefaultQuality = 90

// baseFilename 是下载时建议的文件名（不含扩展名）。
const baseFilename = "cinematic-scene"

// EncodeOptions 控制输出编码。
type EncodeOptions struct {
	Format  string
	Quality int
}

// DefaultEncodeOptions 返回 JPEG、质量 90。
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Format: FormatJPEG, Quality: DefaultQuality}
}

// ParseFormat 规范化格式名，空串视为 JPEG。
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "jpg", "jpeg", "image/jpeg":
		return FormatJPEG, nil
	case "png", "image/png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q", name)
	}
}

// FormatFromPath 根据文件扩展名推断格式，无法识别时返回 ok=false。
func FormatFromPath(path string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

func (o EncodeOptions) normalized() EncodeOptions {
	f, err := ParseFormat(o.Format)
	if err != nil {
		f = o.Format
	}
	o.Format = f
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// MIMEType 返回编码结果的 MIME 类型。
func (o EncodeOptions) MIMEType() string {
	if o.normalized().Format == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// Filename 返回建议的下载文件名。
func (o EncodeOptions) Filename() string {
	if o.normalized().Format == FormatPNG {
		return baseFilename + ".png"
	}
	return baseFilename + ".jpg"
}

// Encode 按 opts 把 img 编码写入 w。
func Encode(w io.Writer, img image.Image, opts EncodeOptions) error {
	if img == nil {
		return ErrMissingImage
	}
	o := opts.normalized()
	var err error
	switch o.Format {
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(o.Quality))
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	default:
		return fmt.Errorf("不支持的输出格式 %q", opts.Format)
	}
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", o.Format, err)
	}
	return nil
}
