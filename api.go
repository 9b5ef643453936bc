package meteosat

// GeoTransform is a GDAL style affine: originX, resX, 0, originY, 0, -resY
type GeoTransform = [6]float64

// Extent is a WGS84 bounding box used for clipping.
type Extent struct {
	North float64
	South float64
	East  float64
	West  float64
}

func (e Extent) Wkt() string {
	return PointsToWkt(e.West, e.East, e.South, e.North)
}

// GridOptions selects one time slice of one NetCDF variable and tells the
// converter how to reshape it. The transform order is fixed: transpose,
// then longitude wrap correction, then vertical flip.
type GridOptions struct {
	Var        string // variable to extract
	Time       string // timestamp in "2006-01-02 15:04" layout, matched exactly
	Flip       bool   // reverse row order (source stores latitude ascending)
	Correction bool   // rotate [0,360) longitudes into [-180,180)
	Transpose  bool   // transpose the 2-D array before the other transforms
	MultiDim   bool   // collapse an extra leading dimension by taking index 0
}

// PixelType is the element type of the source array, preserved in the output.
type PixelType int

const (
	PixelFloat32 PixelType = iota
	PixelFloat64
	PixelInt16
	PixelInt32
)

func (p PixelType) String() string {
	switch p {
	case PixelFloat32:
		return "float32"
	case PixelFloat64:
		return "float64"
	case PixelInt16:
		return "int16"
	case PixelInt32:
		return "int32"
	}
	return "unknown"
}

// Raster is one converted 2-D slice, not yet written to disk.
type Raster struct {
	Data      []float64 // row-major, Height rows by Width columns
	Width     int
	Height    int
	Transform GeoTransform
	Pixel     PixelType
}

func (r *Raster) At(row, col int) float64 {
	return r.Data[row*r.Width+col]
}
