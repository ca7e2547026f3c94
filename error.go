package layerlib

import "errors"

var (
	ErrUnreadableSource   = errors.New("source can not be read as raster")
	ErrReprojectionFailed = errors.New("raster reprojection failed")
	ErrEncodingFailed     = errors.New("image encoding failed")
	ErrEmptyGeometry      = errors.New("empty or degenerate geometry bounds")
	ErrWrongGeoJSON       = errors.New("wrong GeoJSON")
	ErrUnsupportedImage   = errors.New("unsupported image extension")
	ErrVoidSrid           = errors.New("void srid")
)
