package meteosat

import (
	"fmt"
	"os"
	"time"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	"go.uber.org/zap"
)

// product bundles the collaborators every downloader shares.
type product struct {
	gdal   *GdalToolbox
	dl     *Downloader
	tmpDir string
	logTag string
}

func newProduct(tag, tmpDir string) product {
	return product{
		gdal:   NewGdalToolbox(tmpDir),
		dl:     NewDownloader(),
		tmpDir: tmpDir,
		logTag: tag,
	}
}

func optDir(dirs []string) string {
	if len(dirs) > 0 && dirs[0] != "" {
		return dirs[0]
	}
	return os.TempDir()
}

func validateOption(logTag, kind, val string, allowed []string, bad error) (err error) {
	if utils.ContainsAny(allowed, []string{val}) {
		return
	}
	log.Error(logTag+"invalid "+kind, zap.String(kind, val), zap.Strings("allowed", allowed))
	err = bad
	return
}

// finishRaster clips the temporary raster into place, or moves it whole when
// no extent is requested. The temporary file is always consumed.
func (p *product) finishRaster(tmpTif, outpath string, extent *Extent, clampNaN bool) (err error) {
	if extent == nil {
		return utils.MoveFile(tmpTif, outpath)
	}
	defer os.Remove(tmpTif)
	return p.gdal.ClipRasterToExtent(tmpTif, outpath, *extent, clampNaN)
}

// sliceStamp canonicalizes a request date to the grid's time coordinate for
// the given timestep, in the exact match layout the converter expects.
func sliceStamp(date time.Time, timestep string) string {
	switch timestep {
	case TIMESTEP_30MIN:
		date = date.Truncate(30 * time.Minute)
	case TIMESTEP_HOURLY, TIMESTEP_3HOURLY, TIMESTEP_6HOURLY:
		date = date.Truncate(time.Hour)
	case TIMESTEP_DAILY:
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	case TIMESTEP_MONTHLY:
		date = time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	case TIMESTEP_ANNUAL:
		date = time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
	}
	return date.Format(TIME_LAYOUT)
}

// minuteCode is the zero padded minute of day used in GPM object names.
func minuteCode(date time.Time) string {
	return fmt.Sprintf("%04d", date.Hour()*60+date.Minute())
}
