package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrInvalidInput 表示所选文件不是可解码的图片。
var ErrInvalidInput = errors.New("请选择图片文件")

// Image 是载入后的原图，创建后不再修改，可在多次渲染间共享。
type Image struct {
	Name     string
	MIMEType string
	// Data 是原始文件字节，用于并排显示原图。
	Data  []byte
	Image image.Image
}

// Width 返回原图宽度（像素）。
func (i *Image) Width() int { return i.Image.Bounds().Dx() }

// Height 返回原图高度（像素）。
func (i *Image) Height() int { return i.Image.Bounds().Dy() }

// Load 读取并解码 path 指向的图片。
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开图片 %s: %w", path, err)
	}
	defer file.Close()
	return Decode(filepath.Base(path), file)
}

// Decode 校验类型并解码。类型优先按文件扩展名判断，无法判断时嗅探内容；
// 非 image/* 类型或无法解码时返回 ErrInvalidInput。JPEG 会按 EXIF 方向摆正。
func Decode(name string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", name, err)
	}
	mimeType := DetectMIME(name, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s (%s): %w", name, mimeType, ErrInvalidInput)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrInvalidInput, err)
	}
	return &Image{Name: name, MIMEType: mimeType, Data: data, Image: img}, nil
}

// DetectMIME 返回文件类型，不带参数部分。
func DetectMIME(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if t := mime.TypeByExtension(strings.ToLower(ext)); t != "" {
			if mt, _, err := mime.ParseMediaType(t); err == nil {
				return mt
			}
			return t
		}
	}
	t := http.DetectContentType(data)
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}
