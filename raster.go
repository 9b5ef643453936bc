package meteosat

import (
	"math"
	"os"

	"github.com/jusethCS/meteosat/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// WriteRaster persists a converted slice as a single band WGS84 GeoTIFF.
// On any failure the partial output is removed.
func (g *GdalToolbox) WriteRaster(tif string, r *Raster) (err error) {
	ref, err := g.getProj4Ref(WGS84_PROJ4)
	if err != nil {
		return
	}
	dt, buf := rasterBuffer(r)
	ds, err := gdal.Create(gdal.GTiff, tif, 1, dt, r.Width, r.Height)
	if err != nil {
		log.Error(g.logTag+"create tif failed", zap.String("tif", tif), zap.Error(err))
		return
	}
	if err = ds.SetGeoTransform(r.Transform); err == nil {
		if err = ds.SetSpatialRef(ref); err == nil {
			err = ds.Bands()[0].IO(gdal.IOWrite, 0, 0, buf, r.Width, r.Height)
		}
	}
	if cErr := ds.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		log.Error(g.logTag+"write tif failed", zap.String("tif", tif), zap.Error(err))
		os.Remove(tif)
		return
	}
	log.Info(g.logTag+"tif written", zap.String("tif", tif),
		zap.Int("width", r.Width), zap.Int("height", r.Height), zap.String("dtype", r.Pixel.String()))
	return
}

func rasterBuffer(r *Raster) (dt gdal.DataType, buf interface{}) {
	switch r.Pixel {
	case PixelFloat64:
		dt = gdal.Float64
		buf = r.Data
	case PixelInt16:
		dt = gdal.Int16
		b := make([]int16, len(r.Data))
		for i, v := range r.Data {
			b[i] = int16(v)
		}
		buf = b
	case PixelInt32:
		dt = gdal.Int32
		b := make([]int32, len(r.Data))
		for i, v := range r.Data {
			b[i] = int32(v)
		}
		buf = b
	default:
		dt = gdal.Float32
		b := make([]float32, len(r.Data))
		for i, v := range r.Data {
			b[i] = float32(v)
		}
		buf = b
	}
	return
}

// ReadRaster loads a single band GeoTIFF back into memory.
func (g *GdalToolbox) ReadRaster(tif string) (r *Raster, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		err = ErrEmptyTif
		return
	}
	if bc := len(bands); bc != 1 {
		log.Error(g.logTag+"tif must have one band", zap.Int("bands", bc))
		err = ErrWrongTif
		return
	}
	st := bands[0].Structure()
	gt, err := sds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"tif has no geotransform", zap.String("tif", tif), zap.Error(err))
		err = ErrWrongTif
		return
	}
	buf := make([]float64, st.SizeX*st.SizeY)
	if err = bands[0].IO(gdal.IORead, 0, 0, buf, st.SizeX, st.SizeY); err != nil {
		log.Error(g.logTag+"read tif band failed", zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	px := PixelFloat32
	switch st.DataType {
	case gdal.Float64:
		px = PixelFloat64
	case gdal.Int16:
		px = PixelInt16
	case gdal.Int32:
		px = PixelInt32
	}
	r = &Raster{Data: buf, Width: st.SizeX, Height: st.SizeY, Transform: gt, Pixel: px}
	return
}

// ClipRasterToExtent cuts src down to the extent box and clamps negative
// pixels, to zero by default or to NaN with clampNaN.
func (g *GdalToolbox) ClipRasterToExtent(src, out string, e Extent, clampNaN bool) (err error) {
	tmpGeoJson, err := g.cutlineFile(e)
	if err != nil {
		return
	}
	defer os.Remove(tmpGeoJson)
	sds, err := gdal.Open(src, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", src), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	log.Info(g.logTag+"clip raster", zap.String("src", src), zap.String("out", out))
	ods, err := gdal.Warp(out, []*Dataset{sds}, []string{
		"-cutline", tmpGeoJson, "-crop_to_cutline", "-overwrite", "-co", "COMPRESS=LZW",
	})
	sds.Close()
	if err != nil {
		log.Error(g.logTag+"failed to crop raster", zap.Error(err))
		return
	}
	if err = ods.Close(); err != nil {
		return
	}
	return g.clampNegatives(out, clampNaN)
}

func (g *GdalToolbox) clampNegatives(tif string, toNaN bool) (err error) {
	ds, err := gdal.Open(tif, gdal.RasterOnly(), gdal.Update())
	if err != nil {
		log.Error(g.logTag+"open tif for update failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	band := ds.Bands()[0]
	st := band.Structure()
	buf := make([]float64, st.SizeX*st.SizeY)
	if err = band.IO(gdal.IORead, 0, 0, buf, st.SizeX, st.SizeY); err != nil {
		ds.Close()
		err = ErrTifReadFailed
		return
	}
	fill := 0.0
	if toNaN {
		fill = math.NaN()
	}
	changed := false
	for i, v := range buf {
		if v < 0 {
			buf[i] = fill
			changed = true
		}
	}
	if changed {
		err = band.IO(gdal.IOWrite, 0, 0, buf, st.SizeX, st.SizeY)
	}
	if cErr := ds.Close(); err == nil {
		err = cErr
	}
	return
}

// RewriteCRS stamps the WGS84 proj4 definition onto a GeoTIFF whose CRS is
// missing or nonstandard, without resampling.
func (g *GdalToolbox) RewriteCRS(src, out string) (err error) {
	sds, err := gdal.Open(src, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", src), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	ods, err := sds.Translate(out, []string{"-a_srs", WGS84_PROJ4})
	if err != nil {
		log.Error(g.logTag+"failed to translate tif", zap.Error(err))
		return
	}
	err = ods.Close()
	return
}

// ProbeRaster reads the pixel covering a lon/lat point.
func (g *GdalToolbox) ProbeRaster(tif string, lon, lat float64) (val float64, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		err = ErrEmptyTif
		return
	}
	st := bands[0].Structure()
	gt, err := sds.GeoTransform()
	if err != nil || gt[1] == 0 || gt[5] == 0 {
		err = ErrWrongTif
		return
	}
	x := int((lon - gt[0]) / gt[1])
	y := int((lat - gt[3]) / gt[5])
	if x < 0 || x >= st.SizeX || y < 0 || y >= st.SizeY {
		err = ErrWrongRasterOffset
		return
	}
	buf := make([]float64, 1)
	if err = bands[0].IO(gdal.IORead, x, y, buf, 1, 1); err != nil {
		log.Error(g.logTag+"read tif band offset failed", zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	val = buf[0]
	return
}
