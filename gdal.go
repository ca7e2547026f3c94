package layerlib

import (
	"io"
	"strconv"
	"sync"

	"github.com/wgdzlh/layerlib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

type GdalToolbox struct {
	refMap map[int]*gdal.SpatialRef
	rLock  sync.Mutex
	logTag string
}

var registerDrivers sync.Once

// 初始化GDAL工具箱
func NewGdalToolbox() *GdalToolbox {
	registerDrivers.Do(gdal.RegisterAll)
	return &GdalToolbox{
		refMap: map[int]*gdal.SpatialRef{},
		logTag: "GdalToolbox:",
	}
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (g *GdalToolbox) getSridRef(srid int) (ref *gdal.SpatialRef, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	// 4326经proj4定义创建，数据轴次序为固定的(经度,纬度)（传统GIS坐标序），而不是新标准中与CRS相关的次序。
	// 否则坐标变换的输出可能出现(纬度,经度)倒置，算出的目标网格随之转置
	if srid == TARGET_SRID {
		ref, err = gdal.NewSpatialRefFromProj4(PROJ4_LONLAT)
	} else {
		ref, err = gdal.NewSpatialRefFromEPSG(srid)
	}
	if err != nil {
		log.Error(g.logTag+"create spatial ref failed", zap.Int("srid", srid), zap.Error(err))
		return
	}
	g.refMap[srid] = ref
	return
}

func (g *GdalToolbox) getSrid(sp *gdal.SpatialRef) (srid int, err error) {
	if sp == nil {
		err = ErrVoidSrid
		return
	}
	rawId := sp.AuthorityCode("")
	if rawId == "" {
		err = ErrVoidSrid
		return
	}
	srid, err = strconv.Atoi(rawId)
	return
}

// 读取/vsimem中的文件内容
func readVSIFile(path string) (data []byte, err error) {
	vf, err := gdal.VSIOpen(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(vf)
	if e := vf.Close(); err == nil {
		err = e
	}
	return
}
