package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset 是 YAML 样式预设文件的结构，留空的字段不覆盖已有样式。
//
//	subtitleHeight: 20%
//	fontSize: "0.05"
//	fontWeight: bold
//	fontFamily: Liberation Sans, sans-serif
//	textColor: "#ffffff"
//	outlineColor: "#000000"
type Preset struct {
	SubtitleHeight string `yaml:"subtitleHeight"`
	FontSize       string `yaml:"fontSize"`
	FontWeight     string `yaml:"fontWeight"`
	FontFamily     string `yaml:"fontFamily"`
	TextColor      string `yaml:"textColor"`
	OutlineColor   string `yaml:"outlineColor"`
}

// LoadPreset 读取 YAML 预设文件。
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("读取样式预设 %s 失败: %w", path, err)
	}
	return ParsePreset(data)
}

// ParsePreset 解析 YAML 预设内容，未知字段视为错误。
func ParsePreset(data []byte) (Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Preset{}, fmt.Errorf("解析样式预设失败: %w", err)
	}
	return p, nil
}

// Apply 把预设中非空的字段叠加到 base 上。
func (p Preset) Apply(base StyleOptions) (StyleOptions, error) {
	out := base
	fields := []struct {
		key, value string
	}{
		{KeySubtitleHeight, p.SubtitleHeight},
		{KeyFontSize, p.FontSize},
		{KeyFontWeight, p.FontWeight},
		{KeyFontFamily, p.FontFamily},
		{KeyTextColor, p.TextColor},
		{KeyOutlineColor, p.OutlineColor},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := out.Set(f.key, f.value); err != nil {
			return base, fmt.Errorf("样式预设: %w", err)
		}
	}
	return out, nil
}
