package layout

import "math"

// pixelEpsilon 吸收 600*0.2 这类乘法的浮点误差，避免画布高度被向下取整少一行。
const pixelEpsilon = 1e-9

// Build 根据原图尺寸、台词行数与字幕高度比例计算堆叠切片的布局。
//
// 纯函数：不做 I/O，除返回的 Plan 外不分配资源，可在每次预览时反复调用。
// sliceHeight 保持浮点，像素对齐由渲染阶段负责。lineCount <= 0 时退化为
// 不带字幕的原图。
func Build(width, height, lineCount int, subtitleHeightRatio float64) Plan {
	w, h := float64(width), float64(height)
	slice := h * subtitleHeightRatio

	plan := Plan{
		SourceWidth:  width,
		SourceHeight: height,
		CanvasWidth:  w,
		CanvasHeight: h,
		SliceHeight:  slice,
	}
	if lineCount <= 0 {
		return plan
	}

	plan.CanvasHeight = h + float64(lineCount-1)*slice
	plan.Slices = make([]SliceLayout, 0, lineCount)

	full := Rect{X: 0, Y: 0, Width: w, Height: h}
	plan.Slices = append(plan.Slices, SliceLayout{
		Index:  0,
		Dest:   full,
		Source: full,
		Band:   Rect{X: 0, Y: h - slice, Width: w, Height: slice},
	})

	// 之后每一行都重复原图底部同一块切片，只改变纵向位置。
	bottom := Rect{X: 0, Y: h - slice, Width: w, Height: slice}
	for i := 1; i < lineCount; i++ {
		dest := Rect{X: 0, Y: h + float64(i-1)*slice, Width: w, Height: slice}
		plan.Slices = append(plan.Slices, SliceLayout{
			Index:  i,
			Dest:   dest,
			Source: bottom,
			Band:   dest,
		})
	}
	return plan
}

// PixelSize 返回输出位图的整数尺寸（与浏览器 canvas 一样向下取整）。
func (p Plan) PixelSize() (int, int) {
	return floorPx(p.CanvasWidth), floorPx(p.CanvasHeight)
}

// PixelRect 把浮点矩形扩展到覆盖它的最小整数像素区域。
func PixelRect(r Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X + pixelEpsilon))
	y0 = int(math.Floor(r.Y + pixelEpsilon))
	x1 = int(math.Ceil(r.Right() - pixelEpsilon))
	y1 = int(math.Ceil(r.Bottom() - pixelEpsilon))
	return
}

// IsIntegral 判断矩形的四条边是否都落在整数像素上。
func IsIntegral(r Rect) bool {
	return isWhole(r.X) && isWhole(r.Y) && isWhole(r.Width) && isWhole(r.Height)
}

func isWhole(v float64) bool {
	return math.Abs(v-math.Round(v)) < pixelEpsilon
}

func floorPx(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + pixelEpsilon))
}
