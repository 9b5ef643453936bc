package meteosat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CHIRPS downloads Climate Hazards Center InfraRed Precipitation with
// Station data, served as gzipped global GeoTIFFs.
type CHIRPS struct {
	product
	server string
}

var chirpsTimesteps = []string{TIMESTEP_DAILY, TIMESTEP_MONTHLY, TIMESTEP_ANNUAL}

func NewCHIRPS(tmpDir ...string) *CHIRPS {
	return &CHIRPS{
		product: newProduct("CHIRPS:", optDir(tmpDir)),
		server:  CHIRPS_SERVER,
	}
}

// URL builds the archive path for one date at the given timestep.
func (c *CHIRPS) URL(date time.Time, timestep string) string {
	product := fmt.Sprintf("%s/products/CHIRPS-2.0/global_%s/tifs", c.server, timestep)
	switch timestep {
	case TIMESTEP_DAILY:
		return fmt.Sprintf("%s/p05/%s/chirps-v2.0.%s.tif.gz",
			product, date.Format("2006"), date.Format("2006.01.02"))
	case TIMESTEP_MONTHLY:
		return fmt.Sprintf("%s/chirps-v2.0.%s.tif.gz", product, date.Format("2006.01"))
	default:
		return fmt.Sprintf("%s/chirps-v2.0.%s.tif.gz", product, date.Format("2006"))
	}
}

// Download fetches one CHIRPS slice into outpath, clipped when extent is set.
func (c *CHIRPS) Download(ctx context.Context, date time.Time, timestep, outpath string, extent *Extent) (err error) {
	if err = validateOption(c.logTag, "timestep", timestep, chirpsTimesteps, ErrBadTimestep); err != nil {
		return
	}
	tmpGz := filepath.Join(c.tmpDir, fmt.Sprintf(TMP_GZ, uuid.NewString()))
	if err = c.dl.FetchFile(ctx, c.URL(date, timestep), tmpGz); err != nil {
		return
	}
	defer os.Remove(tmpGz)
	tmpTif := filepath.Join(c.tmpDir, fmt.Sprintf(TMP_TIF, uuid.NewString()))
	if err = utils.Ungzip(tmpGz, tmpTif); err != nil {
		return
	}
	if err = c.finishRaster(tmpTif, outpath, extent, false); err != nil {
		return
	}
	log.Info(c.logTag+"downloaded", zap.String("timestep", timestep),
		zap.Time("date", date), zap.String("out", outpath))
	return
}
