package meteosat

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type (
	Dataset    = gdal.Dataset
	Geometry   = gdal.Geometry
	SpatialRef = gdal.SpatialRef
)

// GdalToolbox wraps the raster side of GDAL. Spatial references are cached
// and reused, so they are never destroyed.
type GdalToolbox struct {
	refMap map[int]*SpatialRef
	p4Map  map[string]*SpatialRef
	rLock  sync.Mutex
	tmpDir string
	logTag string
}

var registerGdal sync.Once

// NewGdalToolbox builds a toolbox; tmpDir is an optional scratch directory
// for cutline files (default: current directory).
func NewGdalToolbox(tmpDir ...string) *GdalToolbox {
	registerGdal.Do(gdal.RegisterAll)
	g := &GdalToolbox{
		refMap: map[int]*SpatialRef{},
		p4Map:  map[string]*SpatialRef{},
		logTag: "GdalToolbox:",
	}
	if len(tmpDir) > 0 && tmpDir[0] != "" {
		g.tmpDir = tmpDir[0]
	}
	return g
}

func (g *GdalToolbox) getSridRef(srid int) (ref *SpatialRef, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	if ref, err = gdal.NewSpatialRefFromEPSG(srid); err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		return
	}
	g.refMap[srid] = ref
	return
}

func (g *GdalToolbox) getProj4Ref(proj4 string) (ref *SpatialRef, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.p4Map[proj4]
	if ok {
		return
	}
	if ref, err = gdal.NewSpatialRefFromProj4(proj4); err != nil {
		log.Error(g.logTag+"set ref proj4 failed", zap.String("proj4", proj4), zap.Error(err))
		return
	}
	g.p4Map[proj4] = ref
	return
}

func (g *GdalToolbox) geoToGeoJSON(geo *Geometry) (ret []byte, err error) {
	js, err := geo.GeoJSON()
	if err != nil {
		log.Error(g.logTag+"geo to GeoJSON failed", zap.Error(err))
		return
	}
	ret = utils.S2B(js)
	return
}

// cutlineFile renders the extent polygon into a temp GeoJSON for gdalwarp.
// The caller removes the file.
func (g *GdalToolbox) cutlineFile(e Extent) (path string, err error) {
	ref, err := g.getSridRef(UNIVERSAL_SRID)
	if err != nil {
		return
	}
	geo, err := gdal.NewGeometryFromWKT(e.Wkt(), ref)
	if err != nil {
		log.Error(g.logTag+"parse extent wkt failed", zap.Error(err))
		err = ErrInvalidWKT
		return
	}
	defer geo.Close()
	js, err := g.geoToGeoJSON(geo)
	if err != nil {
		return
	}
	path = filepath.Join(g.tmpDir, fmt.Sprintf(TMP_GEOJSON, uuid.NewString()))
	err = os.WriteFile(path, js, os.ModePerm)
	return
}

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

func SpanToWkt(span [4]float64) string {
	return PointsToWkt(span[0], span[1], span[2], span[3])
}
