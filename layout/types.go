package layout

// 该文件定义切片布局结果，供合成、渲染与调试 JSON 共用。

// Rect 是浮点矩形，单位为像素，原点在左上角，y 轴向下。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom 返回矩形下边缘的 y 坐标。
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Right 返回矩形右边缘的 x 坐标。
func (r Rect) Right() float64 { return r.X + r.Width }

// Center 返回矩形中心点。
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Empty 在宽或高不大于 0 时返回 true。
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// SliceLayout 描述第 Index 行台词对应的切片。
//   - Dest：切片在输出画布中的位置；
//   - Source：从原图拷贝的区域（第 0 行为整张原图，其余为原图底部切片）；
//   - Band：字幕遮罩带，第 0 行是原图底部 sliceHeight 高度，其余行与 Dest 相同。
type SliceLayout struct {
	Index  int  `json:"index"`
	Dest   Rect `json:"dest"`
	Source Rect `json:"source"`
	Band   Rect `json:"band"`
}

// Plan 保存一次合成的画布尺寸与全部切片。
type Plan struct {
	SourceWidth  int           `json:"sourceWidth"`
	SourceHeight int           `json:"sourceHeight"`
	CanvasWidth  float64       `json:"canvasWidth"`
	CanvasHeight float64       `json:"canvasHeight"`
	SliceHeight  float64       `json:"sliceHeight"`
	Slices       []SliceLayout `json:"slices"`
}
