package layerlib

import (
	"fmt"

	"github.com/wgdzlh/layerlib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 将普通图片（png/jpg）统一转码为JPEG字节，供前端以data URI内嵌。
// 超过3个波段的图片（如带透明通道的PNG）只保留前3个波段
func (g *GdalToolbox) EmbedImage(path string) (img []byte, err error) {
	sds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open image failed", zap.String("path", path), zap.Error(err))
		err = ErrUnreadableSource
		return
	}
	defer sds.Close()
	opts := []string{"-of", "JPEG", "-ot", "Byte"}
	if sds.Structure().NBands > 3 {
		opts = append(opts, "-b", "1", "-b", "2", "-b", "3")
	}
	tmp := fmt.Sprintf(TMP_JPEG, uuid.NewString())
	ods, err := sds.Translate(tmp, opts)
	if err != nil {
		log.Error(g.logTag+"translate to jpeg failed", zap.String("path", path), zap.Error(err))
		err = ErrEncodingFailed
		return
	}
	ods.Close()
	defer gdal.VSIUnlink(tmp)
	if img, err = readVSIFile(tmp); err != nil {
		log.Error(g.logTag+"read jpeg from vsimem failed", zap.Error(err))
		err = ErrEncodingFailed
	}
	return
}
