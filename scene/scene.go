package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/cinestrip/dsl"
)

// Output 记录场景文件中的输出设置，零值表示沿用调用方的默认值。
type Output struct {
	Format  string `json:"format,omitempty"`
	Quality int    `json:"quality,omitempty"`
	File    string `json:"file,omitempty"`
}

// Scene 是从场景文件解析出的全部输入。
type Scene struct {
	Name      string       `json:"name"`
	ImagePath string       `json:"imagePath,omitempty"`
	Lines     []string     `json:"lines"`
	Style     StyleOptions `json:"style"`
	Output    Output       `json:"output"`
}

// LoadFile 读取场景文件；图片路径相对于场景文件所在目录解析。
func LoadFile(path string, base StyleOptions) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开场景文件 %s: %w", path, err)
	}
	defer file.Close()

	sc, err := Parse(file, base)
	if err != nil {
		return nil, fmt.Errorf("场景文件 %s: %w", path, err)
	}
	if sc.ImagePath != "" && !filepath.IsAbs(sc.ImagePath) {
		sc.ImagePath = filepath.Join(filepath.Dir(path), sc.ImagePath)
	}
	return sc, nil
}

// Parse 解析场景 DSL，并把 style 段叠加到 base 上。
func Parse(r io.Reader, base StyleOptions) (*Scene, error) {
	script, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}
	return FromScript(script, base)
}

// FromScript 把 AST 转换为 Scene。同类段落出现多次时，后出现的覆盖先出现的，
// lines 段则依次追加。
func FromScript(script *dsl.Script, base StyleOptions) (*Scene, error) {
	if script == nil {
		return nil, fmt.Errorf("场景为空")
	}
	sc := &Scene{Name: script.Name, Style: base}
	for _, section := range script.Sections {
		switch {
		case section.Image != nil:
			sc.ImagePath = string(section.Image.Path)
		case section.Style != nil:
			for _, a := range section.Style.Block.Assignments() {
				if err := sc.Style.Set(a.Key, a.Value.Text()); err != nil {
					return nil, fmt.Errorf("第 %d 行: %w", a.Pos.Line, err)
				}
			}
		case section.Lines != nil:
			sc.Lines = append(sc.Lines, section.Lines.Block.Texts()...)
		case section.Output != nil:
			if err := applyOutput(&sc.Output, section.Output.Block.Assignments()); err != nil {
				return nil, err
			}
		}
	}
	return sc, nil
}

func applyOutput(out *Output, assignments []*dsl.Assignment) error {
	for _, a := range assignments {
		value := a.Value.Text()
		switch strings.ToLower(a.Key) {
		case "format":
			out.Format = strings.ToLower(value)
		case "quality":
			q, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
			if err != nil || q < 1 || q > 100 {
				return fmt.Errorf("第 %d 行: 无效的输出质量 %q", a.Pos.Line, value)
			}
			out.Quality = q
		case "file":
			out.File = value
		default:
			return fmt.Errorf("第 %d 行: 未知的输出属性 %q", a.Pos.Line, a.Key)
		}
	}
	return nil
}
