package meteosat

import (
	"math"
	"strings"
	"time"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"go.uber.org/zap"
)

// Grid is an opened NetCDF dataset, classic or HDF5 backed.
type Grid struct {
	nc     api.Group
	path   string
	logTag string
}

func OpenGrid(path string) (g *Grid, err error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		log.Error("Grid: open dataset failed", zap.String("path", path), zap.Error(err))
		return
	}
	g = &Grid{
		nc:     nc,
		path:   path,
		logTag: "Grid:",
	}
	return
}

func (g *Grid) Close() {
	if g.nc != nil {
		g.nc.Close()
		g.nc = nil
	}
}

// lookup resolves a name in the root group, then in direct subgroups
// (HDF5 products keep their payload under a "Grid" group).
func (g *Grid) lookup(name string) (v *api.Variable, err error) {
	if v, err = g.nc.GetVariable(name); err == nil {
		return
	}
	for _, sub := range g.nc.ListSubgroups() {
		sg, e := g.nc.GetGroup(sub)
		if e != nil {
			continue
		}
		v, e = sg.GetVariable(name)
		sg.Close()
		if e == nil {
			err = nil
			return
		}
	}
	err = ErrVarNotFound
	return
}

func (g *Grid) variable(name string) (v *api.Variable, err error) {
	if v, err = g.lookup(name); err != nil {
		log.Error(g.logTag+"variable not found", zap.String("var", name), zap.String("path", g.path))
	}
	return
}

// Coord returns the first present coordinate among names as float64 values.
func (g *Grid) Coord(names ...string) (vals []float64, err error) {
	for _, name := range names {
		v, e := g.lookup(name)
		if e != nil {
			continue
		}
		var ok bool
		if vals, ok = toFloat64s(v.Values); ok {
			return
		}
	}
	log.Error(g.logTag+"coordinate not found", zap.Strings("names", names), zap.String("path", g.path))
	err = ErrNoCoordinate
	return
}

// Times decodes the time coordinate per its CF units attribute.
func (g *Grid) Times() (ts []time.Time, err error) {
	v, err := g.variable(VAR_TIME)
	if err != nil {
		err = ErrNoCoordinate
		return
	}
	raw, ok := toFloat64s(v.Values)
	if !ok {
		err = ErrNoCoordinate
		return
	}
	units, ok := attrString(v.Attributes, "units")
	if !ok {
		log.Error(g.logTag+"time variable has no units", zap.String("path", g.path))
		err = ErrBadTimeUnits
		return
	}
	ts, err = decodeCFTimes(raw, units)
	if err != nil {
		log.Error(g.logTag+"bad time units", zap.String("units", units), zap.Error(err))
	}
	return
}

// TimeIndex finds the slice whose decoded coordinate formats to stamp.
func (g *Grid) TimeIndex(stamp string) (idx int, err error) {
	ts, err := g.Times()
	if err != nil {
		return
	}
	for i, t := range ts {
		if t.Format(TIME_LAYOUT) == stamp {
			idx = i
			return
		}
	}
	log.Error(g.logTag+"timestamp not in dataset", zap.String("stamp", stamp),
		zap.Int("steps", len(ts)), zap.String("path", g.path))
	err = ErrTimeNotFound
	return
}

// Slice extracts one 2-D plane of a variable: the time axis is collapsed at
// timeIdx wherever it sits, then multiDim collapses the leading remaining
// axis at index 0. Anything that does not end up 2-D is rejected.
func (g *Grid) Slice(name string, timeIdx int, multiDim bool) (data []float64, h, w int, px PixelType, err error) {
	v, err := g.variable(name)
	if err != nil {
		return
	}
	axis := timeAxis(v.Dimensions)
	if axis < 0 || axis > 1 {
		log.Error(g.logTag+"no usable time dimension", zap.String("var", name),
			zap.Strings("dims", v.Dimensions))
		err = ErrBadShape
		return
	}
	plane, err := collapse(v.Values, axis, timeIdx, multiDim)
	if err != nil {
		log.Error(g.logTag+"bad variable shape", zap.String("var", name),
			zap.Strings("dims", v.Dimensions), zap.Error(err))
		return
	}
	return flatten(plane)
}

func timeAxis(dims []string) int {
	for i, d := range dims {
		if strings.EqualFold(d, VAR_TIME) {
			return i
		}
	}
	return -1
}

// collapse removes the time axis at timeIdx, then optionally the leading
// remaining axis at index 0, leaving a 2-D plane.
func collapse(values interface{}, axis, timeIdx int, multiDim bool) (plane interface{}, err error) {
	plane, err = indexAxis(values, axis, timeIdx)
	if err != nil {
		return
	}
	if multiDim {
		plane, err = indexAxis(plane, 0, 0)
	}
	return
}

func indexAxis(values interface{}, axis, idx int) (out interface{}, err error) {
	if axis == 0 {
		return indexLead(values, idx)
	}
	// a second axis only occurs on 4-D variables
	switch a := values.(type) {
	case [][][][]float64:
		rows := make([][][]float64, len(a))
		for i, sub := range a {
			if idx >= len(sub) {
				err = ErrBadShape
				return
			}
			rows[i] = sub[idx]
		}
		out = rows
	case [][][][]float32:
		rows := make([][][]float32, len(a))
		for i, sub := range a {
			if idx >= len(sub) {
				err = ErrBadShape
				return
			}
			rows[i] = sub[idx]
		}
		out = rows
	case [][][][]int32:
		rows := make([][][]int32, len(a))
		for i, sub := range a {
			if idx >= len(sub) {
				err = ErrBadShape
				return
			}
			rows[i] = sub[idx]
		}
		out = rows
	case [][][][]int16:
		rows := make([][][]int16, len(a))
		for i, sub := range a {
			if idx >= len(sub) {
				err = ErrBadShape
				return
			}
			rows[i] = sub[idx]
		}
		out = rows
	default:
		err = ErrBadShape
	}
	return
}

func indexLead(values interface{}, i int) (out interface{}, err error) {
	switch a := values.(type) {
	case [][][][]float64:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][][]float32:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][][]int32:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][][]int16:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][]float64:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][]float32:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][]int32:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	case [][][]int16:
		if i >= len(a) {
			err = ErrBadShape
			return
		}
		out = a[i]
	default:
		err = ErrBadShape
	}
	return
}

func flatten(plane interface{}) (data []float64, h, w int, px PixelType, err error) {
	switch a := plane.(type) {
	case [][]float64:
		px = PixelFloat64
		h = len(a)
		if h == 0 {
			err = ErrBadShape
			return
		}
		w = len(a[0])
		data = make([]float64, 0, h*w)
		for _, row := range a {
			if len(row) != w {
				err = ErrBadShape
				return
			}
			data = append(data, row...)
		}
	case [][]float32:
		px = PixelFloat32
		h = len(a)
		if h == 0 {
			err = ErrBadShape
			return
		}
		w = len(a[0])
		data = make([]float64, 0, h*w)
		for _, row := range a {
			if len(row) != w {
				err = ErrBadShape
				return
			}
			for _, e := range row {
				data = append(data, float64(e))
			}
		}
	case [][]int32:
		px = PixelInt32
		h = len(a)
		if h == 0 {
			err = ErrBadShape
			return
		}
		w = len(a[0])
		data = make([]float64, 0, h*w)
		for _, row := range a {
			if len(row) != w {
				err = ErrBadShape
				return
			}
			for _, e := range row {
				data = append(data, float64(e))
			}
		}
	case [][]int16:
		px = PixelInt16
		h = len(a)
		if h == 0 {
			err = ErrBadShape
			return
		}
		w = len(a[0])
		data = make([]float64, 0, h*w)
		for _, row := range a {
			if len(row) != w {
				err = ErrBadShape
				return
			}
			for _, e := range row {
				data = append(data, float64(e))
			}
		}
	default:
		err = ErrBadShape
	}
	return
}

func toFloat64s(v interface{}) (out []float64, ok bool) {
	switch a := v.(type) {
	case []float64:
		out, ok = a, true
	case []float32:
		out = make([]float64, len(a))
		for i, e := range a {
			out[i] = float64(e)
		}
		ok = true
	case []int64:
		out = make([]float64, len(a))
		for i, e := range a {
			out[i] = float64(e)
		}
		ok = true
	case []int32:
		out = make([]float64, len(a))
		for i, e := range a {
			out[i] = float64(e)
		}
		ok = true
	case []int16:
		out = make([]float64, len(a))
		for i, e := range a {
			out[i] = float64(e)
		}
		ok = true
	}
	return
}

func attrString(am api.AttributeMap, key string) (s string, ok bool) {
	if am == nil {
		return
	}
	v, has := am.Get(key)
	if !has {
		return
	}
	switch a := v.(type) {
	case string:
		s, ok = utils.PurifyForUtf8(a), true
	case []string:
		if len(a) > 0 {
			s, ok = utils.PurifyForUtf8(a[0]), true
		}
	case []byte:
		s, ok = utils.DecodeText(a), true
	}
	return
}

var cfRefLayouts = []string{
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// decodeCFTimes resolves numeric offsets against a CF style units attribute,
// e.g. "minutes since 2000-06-01 00:00:00".
func decodeCFTimes(raw []float64, units string) (ts []time.Time, err error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || !strings.EqualFold(fields[1], "since") {
		err = ErrBadTimeUnits
		return
	}
	var unit time.Duration
	switch strings.ToLower(fields[0]) {
	case "seconds", "second", "secs", "sec", "s":
		unit = time.Second
	case "minutes", "minute", "mins", "min":
		unit = time.Minute
	case "hours", "hour", "hrs", "hr", "h":
		unit = time.Hour
	case "days", "day", "d":
		unit = 24 * time.Hour
	default:
		err = ErrBadTimeUnits
		return
	}
	refStr := strings.Join(fields[2:], " ")
	refStr = strings.TrimSuffix(strings.TrimSuffix(refStr, " UTC"), " GMT")
	var ref time.Time
	parsed := false
	for _, layout := range cfRefLayouts {
		if ref, err = time.ParseInLocation(layout, refStr, time.UTC); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		err = ErrBadTimeUnits
		return
	}
	err = nil
	ts = make([]time.Time, len(raw))
	for i, v := range raw {
		secs := math.Round(v * unit.Seconds())
		ts[i] = ref.Add(time.Duration(secs) * time.Second)
	}
	return
}
