package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将切片布局输出为 JSON，便于调试或可视化。
func WriteDebugJSON(plan Plan, path string) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
