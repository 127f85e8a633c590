package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"github.com/go-fonts/liberation/liberationmonobold"
	"github.com/go-fonts/liberation/liberationmonoregular"
	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/go-fonts/liberation/liberationserifbold"
	"github.com/go-fonts/liberation/liberationserifregular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily 是字体列表全部无法识别时使用的字体。
const DefaultFamily = "Liberation Sans"

// Family 是一款内置字体的常规与粗体字面。
type Family struct {
	Name    string
	Regular []byte
	Bold    []byte
}

// Face 返回对应字重的字体数据。
func (f Family) Face(bold bool) []byte {
	if bold && len(f.Bold) > 0 {
		return f.Bold
	}
	return f.Regular
}

var builtins = []Family{
	{Name: "Liberation Sans", Regular: liberationsansregular.TTF, Bold: liberationsansbold.TTF},
	{Name: "Liberation Serif", Regular: liberationserifregular.TTF, Bold: liberationserifbold.TTF},
	{Name: "Liberation Mono", Regular: liberationmonoregular.TTF, Bold: liberationmonobold.TTF},
	{Name: "Latin Modern Roman", Regular: lmroman10regular.TTF, Bold: lmroman10bold.TTF},
	{Name: "Latin Modern Sans", Regular: lmsans10regular.TTF, Bold: lmsans10bold.TTF},
	{Name: "Go", Regular: goregular.TTF, Bold: gobold.TTF},
}

// CSS 通用族名与常见系统字体映射到度量兼容的内置字体。
var aliases = map[string]string{
	"sans-serif":      "Liberation Sans",
	"system-ui":       "Liberation Sans",
	"arial":           "Liberation Sans",
	"helvetica":       "Liberation Sans",
	"helvetica neue":  "Liberation Sans",
	"serif":           "Liberation Serif",
	"times":           "Liberation Serif",
	"times new roman": "Liberation Serif",
	"monospace":       "Liberation Mono",
	"courier":         "Liberation Mono",
	"courier new":     "Liberation Mono",
	"latin modern":    "Latin Modern Roman",
	"go regular":      "Go",
}

// Families 返回全部内置字体名。
func Families() []string {
	names := make([]string, 0, len(builtins))
	for _, f := range builtins {
		names = append(names, f.Name)
	}
	return names
}

// Lookup 按名称或别名查找内置字体，忽略大小写。
func Lookup(name string) (Family, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = strings.ToLower(alias)
	}
	for _, f := range builtins {
		if strings.ToLower(f.Name) == key {
			return f, true
		}
	}
	return Family{}, false
}

// Default 返回回退字体。
func Default() Family {
	f, _ := Lookup(DefaultFamily)
	return f
}

// SplitFamilyList 拆分形如 `"Noto Sans", Arial, sans-serif` 的字体列表。
func SplitFamilyList(familyList string) []string {
	var out []string
	for _, part := range strings.Split(familyList, ",") {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, `"'`)
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Liberation Serif" 或直接 "Liberation Serif"。
func Load(name string, bold bool) ([]byte, error) {
	clean := strings.TrimPrefix(name, "embed:")
	f, ok := Lookup(clean)
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s", clean)
	}
	return f.Face(bold), nil
}
