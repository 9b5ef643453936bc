package meteosat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jusethCS/meteosat/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CMORPH downloads the NOAA CPC morphing technique precipitation analysis
// from NCEI. The grids are stored south up on a [0,360) longitude axis, so
// conversion flips the rows and wraps the columns back to [-180,180).
type CMORPH struct {
	product
	server string
}

const cmorphVar = "cmorph"

var (
	cmorphTimesteps = []string{TIMESTEP_30MIN, TIMESTEP_HOURLY, TIMESTEP_DAILY}

	// coverage band clipped out when the caller gives no extent
	cmorphDefaultExtent = Extent{North: 60, South: -60, East: 180, West: -180}
)

func NewCMORPH(tmpDir ...string) *CMORPH {
	return &CMORPH{
		product: newProduct("CMORPH:", optDir(tmpDir)),
		server:  CMORPH_SERVER,
	}
}

// URL builds the NCEI access path for one date at the given timestep.
func (c *CMORPH) URL(date time.Time, timestep string) string {
	base := c.server + "/cmorph-high-resolution-global-precipitation-estimates/access"
	switch timestep {
	case TIMESTEP_30MIN:
		return fmt.Sprintf("%s/30min/8km/%s/CMORPH_V1.0_ADJ_8km-30min_%s.nc",
			base, date.Format("2006/01/02"), date.Format("2006010215"))
	case TIMESTEP_HOURLY:
		return fmt.Sprintf("%s/hourly/0.25deg/%s/CMORPH_V1.0_ADJ_0.25deg-HLY_%s.nc",
			base, date.Format("2006/01/02"), date.Format("2006010215"))
	default:
		return fmt.Sprintf("%s/daily/0.25deg/%s/CMORPH_V1.0_ADJ_0.25deg-DLY_00Z_%s.nc",
			base, date.Format("2006/01"), date.Format("20060102"))
	}
}

// Download fetches one CMORPH slice into outpath. Negative cells are set to
// NaN and the raster is clipped to extent, or to the coverage band when nil.
func (c *CMORPH) Download(ctx context.Context, date time.Time, timestep, outpath string, extent *Extent) (err error) {
	if err = validateOption(c.logTag, "timestep", timestep, cmorphTimesteps, ErrBadTimestep); err != nil {
		return
	}
	ext := cmorphDefaultExtent
	if extent != nil {
		ext = *extent
	}
	tmpNC := filepath.Join(c.tmpDir, fmt.Sprintf(TMP_NC, uuid.NewString()))
	if err = c.dl.FetchFile(ctx, c.URL(date, timestep), tmpNC); err != nil {
		return
	}
	defer os.Remove(tmpNC)
	tmpTif := filepath.Join(c.tmpDir, fmt.Sprintf(TMP_TIF, uuid.NewString()))
	if err = c.gdal.NetCDF2TIFF(tmpNC, tmpTif, GridOptions{
		Var:        cmorphVar,
		Time:       sliceStamp(date, timestep),
		Flip:       true,
		Correction: true,
	}); err != nil {
		return
	}
	defer os.Remove(tmpTif)
	if err = c.gdal.ClipRasterToExtent(tmpTif, outpath, ext, true); err != nil {
		return
	}
	log.Info(c.logTag+"downloaded", zap.String("timestep", timestep),
		zap.Time("date", date), zap.String("out", outpath))
	return
}
