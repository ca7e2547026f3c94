package layerlib

import "encoding/json"

type AnyJson = json.RawMessage

// 图层地理范围，[[x1,y1],[x2,y2]]，像素角点(0,0)与(width,height)经目标坐标系变换后的(经度,纬度)对
type LayerBounds = [2][2]float64

var emptyJsonObj = AnyJson(`{}`)

// 栅格摄取能力，由GdalToolbox实现，Session只依赖此接口。
// desc为数据集自带的元数据描述（可为空），供图层描述缺省时回退使用
type RasterIngestor interface {
	IngestRaster(tif string) (img []byte, bounds LayerBounds, desc string, err error)
}

// 普通图片转码能力
type ImageEmbedder interface {
	EmbedImage(path string) (img []byte, err error)
}

// 初始视口：中心点(纬度,经度) + 缩放级别
type Viewport struct {
	Center [2]float64 `json:"center"`
	Zoom   int        `json:"zoom"`
}

type BaseLayer struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Visible     bool     `json:"visible"`
	Url         string   `json:"url"`
	Subdomains  []string `json:"subdomains"`
	Attribution string   `json:"attribution"`
}

type TileLayer struct {
	Id          string `json:"id"`
	Url         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Attribution string `json:"attribution"`
	Visible     bool   `json:"visible"`
}

type OverlayLayer struct {
	Id          string   `json:"id"`
	Data        AnyJson  `json:"data"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Style       AnyJson  `json:"style"`
	Visible     bool     `json:"visible"`
	Viewport    Viewport `json:"viewzoom"`
}

type RasterLayer struct {
	Id          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Url         string      `json:"url"`
	Bounds      LayerBounds `json:"bounds"`
	Visible     bool        `json:"visible"`
}

type ImageLayer struct {
	Id          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Url         string      `json:"url"`
	Bounds      LayerBounds `json:"bounds"`
	Visible     bool        `json:"visible"`
}

type BaseLayerParams struct {
	Name        string
	Url         string
	Subdomains  []string
	Attribution string
	Visible     bool
}

type TileLayerParams struct {
	Url         string
	Title       string
	Description string
	Attribution string
	Visible     bool
}

// Data为GeoJSON FeatureCollection
type OverlayLayerParams struct {
	Data        AnyJson
	Title       string
	Description string
	Style       AnyJson
	Visible     bool
}

type RasterLayerParams struct {
	Path        string
	Title       string
	Description string
	Visible     bool
}

type ImageLayerParams struct {
	Path        string
	Title       string
	Description string
	Bounds      LayerBounds
	Visible     bool
}
