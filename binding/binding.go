package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{\s*([^}]*?)\s*\}`)

// Lines 对每一行台词执行 Interpolate，返回新切片，不修改入参。
func Lines(lines []string, data any) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = Interpolate(ln, data)
	}
	return out
}

// Interpolate 将台词中的 ${path.to.value} 替换为 data 中的值。
// 路径支持 a.b、a[0]、a.b[1].c 形式；data 为空或路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := placeholder.FindStringSubmatch(match)[1]
		val, ok := Lookup(data, path)
		if !ok || val == nil {
			return match
		}
		return format(val)
	})
}

// Lookup 沿路径在 JSON 解码得到的 map/slice 中取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	current := data
	for _, st := range steps {
		switch node := current.(type) {
		case map[string]any:
			if st.index >= 0 {
				return nil, false
			}
			next, found := node[st.key]
			if !found {
				return nil, false
			}
			current = next
		case []any:
			if st.index < 0 || st.index >= len(node) {
				return nil, false
			}
			current = node[st.index]
		default:
			return nil, false
		}
	}
	return current, true
}

// step 是路径中的一级：要么是键名，要么是数组下标（index >= 0）。
type step struct {
	key   string
	index int
}

func parsePath(path string) ([]step, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name := segment
		rest := ""
		if i := strings.IndexByte(segment, '['); i != -1 {
			name, rest = segment[:i], segment[i:]
		}
		if name != "" {
			steps = append(steps, step{key: name, index: -1})
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end == -1 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, false
			}
			steps = append(steps, step{index: idx})
			rest = rest[end+1:]
		}
	}
	return steps, len(steps) > 0
}

func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
