package layerlib

const (
	TARGET_SRID = 4326
	EPSG_4326   = "epsg:4326"
	// proj4定义保证(经度,纬度)轴序，见getSridRef
	PROJ4_LONLAT = "+proj=longlat +datum=WGS84 +no_defs"

	NORMALIZED_BAND_COUNT = 3
	NODATA_SENTINEL       = 1e8
	ALPHA_OPAQUE          = 255
	ALPHA_TRANSPARENT     = 0

	GRID_EDGE_POINTS = 5

	MIN_ZOOM       = 0
	MAX_ZOOM       = 18
	WORLD_LON_SPAN = 360.0
	WORLD_LAT_SPAN = 180.0

	PNG_DATA_URI  = "data:image/png;base64,"
	JPEG_DATA_URI = "data:image/jpeg;base64,"

	FILE_EXT_PNG  = ".png"
	FILE_EXT_JPG  = ".jpg"
	FILE_EXT_JPEG = ".jpeg"

	TMP_PNG  = "/vsimem/raster_%s.png"
	TMP_JPEG = "/vsimem/image_%s.jpg"

	MD_IMAGE_DESCRIPTION = "TIFFTAG_IMAGEDESCRIPTION"
	MD_DESCRIPTION       = "DESCRIPTION"
)
