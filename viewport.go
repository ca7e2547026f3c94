package layerlib

import (
	"math"
)

// 由矢量图层包络（span为{minX,maxX,minY,maxY}）计算初始视口。
// 纯函数：中心点为两轴中点（纬度在前），缩放级别由EstimateZoom给出
func ComputeViewport(span [4]float64) (vp Viewport, err error) {
	if !validSpan(span) {
		err = ErrEmptyGeometry
		return
	}
	vp = Viewport{
		Center: [2]float64{(span[2] + span[3]) / 2, (span[0] + span[1]) / 2},
		Zoom:   EstimateZoom(span),
	}
	return
}

// 估算能将矩形范围纳入单个默认视口的整数缩放级别。
// 0级覆盖全球，每升一级两轴跨度各减半，取两轴中较小者并限制在[MIN_ZOOM,MAX_ZOOM]
func EstimateZoom(span [4]float64) int {
	frac := math.Max((span[1]-span[0])/WORLD_LON_SPAN, (span[3]-span[2])/WORLD_LAT_SPAN)
	if frac <= 0 {
		return MAX_ZOOM
	}
	z := int(math.Floor(math.Log2(1 / frac)))
	if z < MIN_ZOOM {
		return MIN_ZOOM
	}
	if z > MAX_ZOOM {
		return MAX_ZOOM
	}
	return z
}

func validSpan(span [4]float64) bool {
	for _, v := range span {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return span[1] > span[0] && span[3] > span[2]
}
