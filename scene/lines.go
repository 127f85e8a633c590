package scene

import "strings"

// SplitLines 把输入框里的原始文本拆成台词：先去掉整体首尾空白，
// 再按换行切分，丢弃只含空白的行。保留行内原有的空格。
func SplitLines(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return CleanLines(strings.Split(text, "\n"))
}

// CleanLines 丢弃空白行并去掉行尾的 \r，顺序保持不变。
func CleanLines(lines []string) []string {
	var out []string
	for _, ln := range lines {
		ln = strings.TrimSuffix(ln, "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		out = append(out, ln)
	}
	return out
}
