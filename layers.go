package layerlib

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wgdzlh/layerlib/log"
	"github.com/wgdzlh/layerlib/utils"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// 一次应用会话内注册的全部图层。各Add*方法可在并发请求中调用，内部加锁；
// 图层记录一经追加即不可变
type Session struct {
	mu  sync.Mutex
	ing RasterIngestor
	emb ImageEmbedder

	baseLayers    []BaseLayer
	tileLayers    []TileLayer
	overlayLayers []OverlayLayer
	rasterLayers  []RasterLayer
	imageLayers   []ImageLayer
	refImages     [][]byte

	logTag string
}

func NewSession(tb *GdalToolbox) *Session {
	return &Session{
		ing:           tb,
		emb:           tb,
		baseLayers:    []BaseLayer{},
		tileLayers:    []TileLayer{},
		overlayLayers: []OverlayLayer{},
		rasterLayers:  []RasterLayer{},
		imageLayers:   []ImageLayer{},
		refImages:     [][]byte{},
		logTag:        "Session:",
	}
}

func (s *Session) AddBaseLayer(p BaseLayerParams) BaseLayer {
	ret := BaseLayer{
		Id:          uuid.NewString(),
		Name:        utils.SafeUtf8(p.Name),
		Visible:     p.Visible,
		Url:         p.Url,
		Subdomains:  p.Subdomains,
		Attribution: p.Attribution,
	}
	s.mu.Lock()
	s.baseLayers = append(s.baseLayers, ret)
	s.mu.Unlock()
	return ret
}

func (s *Session) AddTileLayer(p TileLayerParams) TileLayer {
	ret := TileLayer{
		Id:          uuid.NewString(),
		Url:         p.Url,
		Title:       utils.SafeUtf8(p.Title),
		Description: utils.SafeUtf8(p.Description),
		Attribution: p.Attribution,
		Visible:     p.Visible,
	}
	s.mu.Lock()
	s.tileLayers = append(s.tileLayers, ret)
	s.mu.Unlock()
	return ret
}

// 注册矢量图层：解析GeoJSON FeatureCollection，取所有要素几何包络的并集，
// 并在注册时一次性算好初始视口（此后不随数据变动重算）
func (s *Session) AddOverlayLayer(p OverlayLayerParams) (ret OverlayLayer, err error) {
	fc, err := geojson.UnmarshalFeatureCollection(p.Data)
	if err != nil {
		log.Error(s.logTag+"parse overlay GeoJSON failed", zap.Error(err))
		err = ErrWrongGeoJSON
		return
	}
	var (
		bound orb.Bound
		found bool
	)
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if b := f.Geometry.Bound(); !found {
			bound, found = b, true
		} else {
			bound = bound.Union(b)
		}
	}
	if !found {
		err = ErrEmptyGeometry
		return
	}
	vp, err := ComputeViewport([4]float64{bound.Min[0], bound.Max[0], bound.Min[1], bound.Max[1]})
	if err != nil {
		return
	}
	style := p.Style
	if style == nil {
		style = emptyJsonObj
	}
	ret = OverlayLayer{
		Id:          uuid.NewString(),
		Data:        p.Data,
		Title:       utils.SafeUtf8(p.Title),
		Description: utils.SafeUtf8(p.Description),
		Style:       style,
		Visible:     p.Visible,
		Viewport:    vp,
	}
	s.mu.Lock()
	s.overlayLayers = append(s.overlayLayers, ret)
	s.mu.Unlock()
	log.Info(s.logTag+"overlay layer added", zap.String("id", ret.Id),
		zap.String("title", ret.Title), zap.Any("viewport", vp))
	return
}

// 注册栅格图层：摄取失败则不追加任何记录（图层列表与参考图列表均不变）
func (s *Session) AddRasterLayer(p RasterLayerParams) (ret RasterLayer, err error) {
	img, bounds, mdDesc, err := s.ing.IngestRaster(p.Path)
	if err != nil {
		return
	}
	title := p.Title
	if title == "" {
		title = utils.GetFilenameWithoutExt(p.Path)
	}
	// 描述缺省时回退到数据集自带的元数据描述
	desc := p.Description
	if desc == "" {
		desc = mdDesc
	}
	ret = RasterLayer{
		Id:          uuid.NewString(),
		Title:       utils.SafeUtf8(title),
		Description: utils.SafeUtf8(desc),
		Url:         PNG_DATA_URI + base64.StdEncoding.EncodeToString(img),
		Bounds:      bounds,
		Visible:     p.Visible,
	}
	s.mu.Lock()
	s.refImages = append(s.refImages, img)
	s.rasterLayers = append(s.rasterLayers, ret)
	s.mu.Unlock()
	log.Info(s.logTag+"raster layer added", zap.String("id", ret.Id),
		zap.String("title", ret.Title), zap.Int("pngSize", len(img)))
	return
}

// 注册图片图层：仅接受png/jpg/jpeg，地理范围由调用方给定
func (s *Session) AddImageLayer(p ImageLayerParams) (ret ImageLayer, err error) {
	switch strings.ToLower(filepath.Ext(p.Path)) {
	case FILE_EXT_PNG, FILE_EXT_JPG, FILE_EXT_JPEG:
	default:
		err = ErrUnsupportedImage
		return
	}
	if p.Bounds[0] == p.Bounds[1] {
		err = ErrEmptyGeometry
		return
	}
	img, err := s.emb.EmbedImage(p.Path)
	if err != nil {
		return
	}
	title := p.Title
	if title == "" {
		title = utils.GetFilenameWithoutExt(p.Path)
	}
	ret = ImageLayer{
		Id:          uuid.NewString(),
		Title:       utils.SafeUtf8(title),
		Description: utils.SafeUtf8(p.Description),
		Url:         JPEG_DATA_URI + base64.StdEncoding.EncodeToString(img),
		Bounds:      p.Bounds,
		Visible:     p.Visible,
	}
	s.mu.Lock()
	s.imageLayers = append(s.imageLayers, ret)
	s.mu.Unlock()
	return
}

// 测试、诊断用参考图：始终返回会话内第一张摄取的PNG，无则返回absent
func (s *Session) ReferenceImage() (img []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.refImages) == 0 {
		return
	}
	return s.refImages[0], true
}

type appPayload struct {
	BaseLayerInfo    []BaseLayer    `json:"base_layer_info"`
	TileLayerInfo    []TileLayer    `json:"tile_layer_info"`
	OverlayLayerData []OverlayLayer `json:"overlay_layer_data"`
	RasterLayerData  []RasterLayer  `json:"raster_layer_data"`
	ImageLayerData   []ImageLayer   `json:"image_layer_data"`
}

// 将全部图层记录压平为前端载荷
func (s *Session) PrepareData() (ret AnyJson, err error) {
	s.mu.Lock()
	payload := appPayload{
		BaseLayerInfo:    s.baseLayers,
		TileLayerInfo:    s.tileLayers,
		OverlayLayerData: s.overlayLayers,
		RasterLayerData:  s.rasterLayers,
		ImageLayerData:   s.imageLayers,
	}
	s.mu.Unlock()
	return json.Marshal(payload)
}
