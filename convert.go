package meteosat

import (
	"math"
	"strings"

	"github.com/jusethCS/meteosat/log"

	"go.uber.org/zap"
)

// NetCDF2TIFF converts one time slice of a NetCDF variable into a single band
// WGS84 GeoTIFF. An empty tif path derives the output next to the source.
// Nothing is written when any stage fails.
func (g *GdalToolbox) NetCDF2TIFF(nc, tif string, o GridOptions) (err error) {
	if tif == "" {
		tif = strings.TrimSuffix(nc, FILE_EXT_NC) + FILE_EXT_TIF
	}
	grid, err := OpenGrid(nc)
	if err != nil {
		return
	}
	defer grid.Close()
	ras, err := convertGrid(grid, o)
	if err != nil {
		return
	}
	log.Info(g.logTag+"converted grid slice", zap.String("nc", nc), zap.String("var", o.Var),
		zap.String("time", o.Time), zap.Int("width", ras.Width), zap.Int("height", ras.Height))
	return g.WriteRaster(tif, ras)
}

// convertGrid runs the selection and reshaping pipeline. Transform order is
// fixed: transpose, then wrap correction, then vertical flip. The output
// origin is anchored to the outer pixel corner, half a cell beyond the
// outermost coordinate centers.
func convertGrid(g *Grid, o GridOptions) (r *Raster, err error) {
	idx, err := g.TimeIndex(o.Time)
	if err != nil {
		return
	}
	data, h, w, px, err := g.Slice(o.Var, idx, o.MultiDim)
	if err != nil {
		return
	}
	lat, err := g.Coord(VAR_LAT, "latitude")
	if err != nil {
		return
	}
	lon, err := g.Coord(VAR_LON, "longitude")
	if err != nil {
		return
	}
	resLat, err := axisStep(lat)
	if err != nil {
		return
	}
	resLon, err := axisStep(lon)
	if err != nil {
		return
	}
	lonMin := minOf(lon) - resLon/2
	latMax := maxOf(lat) + resLat/2
	if o.Transpose {
		data, h, w = transpose(data, h, w)
	}
	if o.Correction {
		if data, err = wrapColumns(data, h, w); err != nil {
			return
		}
		lonMin -= 180
	}
	if o.Flip {
		flipRows(data, h, w)
	}
	r = &Raster{
		Data:      data,
		Width:     w,
		Height:    h,
		Transform: GeoTransform{lonMin, resLon, 0, latMax, 0, -resLat},
		Pixel:     px,
	}
	return
}

// axisStep is the absolute spacing of a coordinate axis. Spacing must stay
// uniform within SPACING_RTOL of the first step, ascending or descending.
func axisStep(coord []float64) (res float64, err error) {
	if len(coord) < 2 {
		err = ErrShortAxis
		return
	}
	step := coord[1] - coord[0]
	res = math.Abs(step)
	if res == 0 {
		err = ErrNonUniformGrid
		return
	}
	tol := res * SPACING_RTOL
	for i := 2; i < len(coord); i++ {
		if math.Abs(coord[i]-coord[i-1]-step) > tol {
			err = ErrNonUniformGrid
			return
		}
	}
	return
}

// wrapColumns swaps the left and right halves of every row, so a [0,360)
// longitude layout reads as [-180,180). The caller shifts the origin.
func wrapColumns(data []float64, h, w int) (out []float64, err error) {
	if w%2 != 0 {
		err = ErrOddWrapAxis
		return
	}
	mid := w / 2
	out = make([]float64, len(data))
	for r := 0; r < h; r++ {
		row := data[r*w : (r+1)*w]
		copy(out[r*w:], row[mid:])
		copy(out[r*w+mid:], row[:mid])
	}
	return
}

func flipRows(data []float64, h, w int) {
	tmp := make([]float64, w)
	for top, bot := 0, h-1; top < bot; top, bot = top+1, bot-1 {
		copy(tmp, data[top*w:(top+1)*w])
		copy(data[top*w:(top+1)*w], data[bot*w:(bot+1)*w])
		copy(data[bot*w:(bot+1)*w], tmp)
	}
}

func transpose(data []float64, h, w int) (out []float64, oh, ow int) {
	out = make([]float64, len(data))
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			out[c*h+r] = data[r*w+c]
		}
	}
	oh, ow = w, h
	return
}

func minOf(vals []float64) (m float64) {
	m = vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return
}

func maxOf(vals []float64) (m float64) {
	m = vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return
}
