package layerlib

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wgdzlh/layerlib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 栅格颜色映射表：0→不透明红（诊断标记），255→不透明黑。固定不可配
var rasterColorMap = func() gdal.ColorTable {
	entries := make([][4]int16, 256)
	entries[0] = [4]int16{255, 0, 0, 255}
	entries[255] = [4]int16{0, 0, 0, 255}
	return gdal.ColorTable{
		PaletteInterp: gdal.RGBPalette,
		Entries:       entries,
	}
}()

// 摄取任意有地理参考的栅格：重投影至EPSG:4326、规范化波段数、合成透明通道、编码为PNG，
// 并按目标网格推算图层地理范围。任何一步失败则整体失败，不返回部分结果
func (g *GdalToolbox) IngestRaster(tif string) (img []byte, bounds LayerBounds, desc string, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open raster failed", zap.String("tif", tif), zap.Error(err))
		err = ErrUnreadableSource
		return
	}
	defer sds.Close()
	st := sds.Structure()
	if st.NBands == 0 {
		log.Error(g.logTag+"raster has no bands", zap.String("tif", tif))
		err = ErrUnreadableSource
		return
	}
	srcRef := sds.SpatialRef()
	defer srcRef.Close()
	srid, _ := g.getSrid(srcRef)
	log.Info(g.logTag+"start raster ingestion", zap.String("tif", tif),
		zap.Int("srid", srid), zap.Int("bands", st.NBands),
		zap.Int("width", st.SizeX), zap.Int("height", st.SizeY))

	gt, width, height, err := g.defaultTargetGrid(sds, srcRef)
	if err != nil {
		return
	}
	ods, err := g.resampleToGrid(sds, gt, width, height)
	if err != nil {
		return
	}
	defer ods.Close()

	oBands := ods.Bands()
	dstBands := make([][]float64, 0, len(oBands)+1)
	buf := make([]float64, width*height)
	for i, b := range oBands {
		if err = b.Read(0, 0, buf, width, height); err != nil {
			log.Error(g.logTag+"read reprojected band failed", zap.Int("band", i), zap.Error(err))
			err = ErrReprojectionFailed
			return
		}
		band := make([]float64, len(buf))
		copy(band, buf)
		dstBands = append(dstBands, band)
	}
	if len(dstBands) == 0 {
		log.Error(g.logTag+"warp produced no bands", zap.String("tif", tif))
		err = ErrReprojectionFailed
		return
	}
	if st.NBands != NORMALIZED_BAND_COUNT {
		dstBands = normalizeBands(dstBands, st.NBands)
	}

	pix := make([][]uint8, 0, len(dstBands)+1)
	for _, band := range dstBands {
		pix = append(pix, bandToByte(band))
	}
	pix = append(pix, alphaMask(dstBands[0]))

	if img, err = g.encodePNG(pix, gt, width, height); err != nil {
		return
	}
	bounds = cornerBounds(gt, width, height)
	desc = rasterDescription(sds)
	log.Info(g.logTag+"raster ingestion done", zap.String("tif", tif),
		zap.Int("pngSize", len(img)), zap.Any("bounds", bounds))
	return
}

// 计算源栅格重投影至目标坐标系的默认网格（闭式仿射推算，不涉及像素重采样）：
// 沿源范围各边采样的点经坐标变换取包络，保持源像素数推算分辨率
func (g *GdalToolbox) defaultTargetGrid(sds *gdal.Dataset, srcRef *gdal.SpatialRef) (gt [6]float64, width, height int, err error) {
	dstRef, err := g.getSridRef(TARGET_SRID)
	if err != nil {
		return
	}
	srcBounds, err := sds.Bounds()
	if err != nil {
		log.Error(g.logTag+"get source bounds failed", zap.Error(err))
		err = ErrReprojectionFailed
		return
	}
	trans, err := gdal.NewTransform(srcRef, dstRef)
	if err != nil {
		log.Error(g.logTag+"create crs transform failed", zap.Error(err))
		err = ErrReprojectionFailed
		return
	}
	defer trans.Close()
	xs, ys := densifyEdges(srcBounds, GRID_EDGE_POINTS)
	if err = trans.TransformEx(xs, ys, nil, nil); err != nil {
		log.Error(g.logTag+"transform source bounds failed", zap.Error(err))
		err = ErrReprojectionFailed
		return
	}
	st := sds.Structure()
	gt, width, height = gridFromEnvelope(envelope(xs, ys), st.SizeX, st.SizeY)
	return
}

// 将整个数据集的所有波段重采样到目标网格（内存数据集，像素值读出为float64）
func (g *GdalToolbox) resampleToGrid(sds *gdal.Dataset, gt [6]float64, width, height int) (ods *gdal.Dataset, err error) {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	minX, minY := applyGeoTransform(gt, 0, float64(height))
	maxX, maxY := applyGeoTransform(gt, float64(width), 0)
	ods, err = gdal.Warp("", []*gdal.Dataset{sds}, []string{
		"-of", "MEM",
		"-t_srs", EPSG_4326,
		"-ot", "Float64",
		"-te", f(minX), f(minY), f(maxX), f(maxY),
		"-ts", strconv.Itoa(width), strconv.Itoa(height),
		"-r", "near",
	})
	if err != nil {
		log.Error(g.logTag+"warp raster failed", zap.Error(err))
		err = ErrReprojectionFailed
	}
	return
}

// 所有波段写入内存数据集并附加颜色映射表，经PNG驱动转出字节
func (g *GdalToolbox) encodePNG(pix [][]uint8, gt [6]float64, width, height int) (img []byte, err error) {
	mem, err := gdal.Create(gdal.Memory, "", len(pix), gdal.Byte, width, height)
	if err != nil {
		log.Error(g.logTag+"create mem dataset failed", zap.Error(err))
		err = ErrEncodingFailed
		return
	}
	defer mem.Close()
	if err = mem.SetGeoTransform(gt); err != nil {
		err = ErrEncodingFailed
		return
	}
	if ref, e := g.getSridRef(TARGET_SRID); e == nil {
		if e = mem.SetSpatialRef(ref); e != nil {
			log.Warn(g.logTag+"set mem spatial ref failed", zap.Error(e))
		}
	}
	for i, b := range mem.Bands() {
		if err = b.Write(0, 0, pix[i], width, height); err != nil {
			log.Error(g.logTag+"write band failed", zap.Int("band", i), zap.Error(err))
			err = ErrEncodingFailed
			return
		}
		// PNG驱动对多波段影像可能忽略调色板
		if e := b.SetColorTable(rasterColorMap); e != nil {
			log.Warn(g.logTag+"set band color table failed", zap.Int("band", i), zap.Error(e))
		}
	}
	tmp := fmt.Sprintf(TMP_PNG, uuid.NewString())
	pds, err := mem.Translate(tmp, []string{"-of", "PNG"})
	if err != nil {
		log.Error(g.logTag+"translate to png failed", zap.Error(err))
		err = ErrEncodingFailed
		return
	}
	pds.Close()
	defer gdal.VSIUnlink(tmp)
	if img, err = readVSIFile(tmp); err != nil {
		log.Error(g.logTag+"read png from vsimem failed", zap.Error(err))
		err = ErrEncodingFailed
	}
	return
}

// 数据集自带的元数据描述，影像产品常见于TIFF描述标签
func rasterDescription(sds *gdal.Dataset) string {
	for _, key := range []string{MD_IMAGE_DESCRIPTION, MD_DESCRIPTION} {
		if v := sds.Metadata(key); v != "" {
			return v
		}
	}
	return ""
}

// 沿矩形范围每条边采样n个点（含角点），投影后取包络可覆盖边界弯曲的情况
func densifyEdges(bounds [4]float64, n int) (xs, ys []float64) {
	minX, minY, maxX, maxY := bounds[0], bounds[1], bounds[2], bounds[3]
	xs = make([]float64, 0, 4*n)
	ys = make([]float64, 0, 4*n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		x := minX + t*(maxX-minX)
		y := minY + t*(maxY-minY)
		xs = append(xs, x, x, minX, maxX)
		ys = append(ys, minY, maxY, y, y)
	}
	return
}

func envelope(xs, ys []float64) (env [4]float64) {
	env = [4]float64{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for i := range xs {
		env[0] = math.Min(env[0], xs[i])
		env[1] = math.Max(env[1], xs[i])
		env[2] = math.Min(env[2], ys[i])
		env[3] = math.Max(env[3], ys[i])
	}
	return
}

// 由目标包络（{minX,maxX,minY,maxY}）与源像素数推算目标网格仿射变换
func gridFromEnvelope(env [4]float64, srcWidth, srcHeight int) (gt [6]float64, width, height int) {
	width, height = srcWidth, srcHeight
	gt = [6]float64{
		env[0], (env[1] - env[0]) / float64(width), 0,
		env[3], 0, -(env[3] - env[2]) / float64(height),
	}
	return
}

func applyGeoTransform(gt [6]float64, px, py float64) (x, y float64) {
	x = gt[0] + px*gt[1] + py*gt[2]
	y = gt[3] + px*gt[4] + py*gt[5]
	return
}

// 像素角点(0,0)与(width,height)经仿射变换得到图层范围，各点保持(经度,纬度)序
func cornerBounds(gt [6]float64, width, height int) (b LayerBounds) {
	b[0][0], b[0][1] = applyGeoTransform(gt, 0, 0)
	b[1][0], b[1][1] = applyGeoTransform(gt, float64(width), float64(height))
	return
}

// 重采样后波段数与源波段数对齐：不足则重复重投影后的0号波段（保证网格一致），多出则截断
func normalizeBands(bands [][]float64, want int) [][]float64 {
	if len(bands) > want {
		return bands[:want]
	}
	for len(bands) < want {
		bands = append(bands, bands[0])
	}
	return bands
}

// 透明通道：0号重投影波段幅值超过NODATA_SENTINEL（或非数）视为无效像素
func alphaMask(band []float64) []uint8 {
	mask := make([]uint8, len(band))
	for i, v := range band {
		if math.IsNaN(v) || math.Abs(v) > NODATA_SENTINEL {
			mask[i] = ALPHA_TRANSPARENT
		} else {
			mask[i] = ALPHA_OPAQUE
		}
	}
	return mask
}

func bandToByte(band []float64) []uint8 {
	out := make([]uint8, len(band))
	for i, v := range band {
		switch {
		case math.IsNaN(v) || v < 0:
			out[i] = 0
		case v > 255:
			out[i] = 255
		default:
			out[i] = uint8(v)
		}
	}
	return out
}
