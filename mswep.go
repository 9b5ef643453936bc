package meteosat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MSWEP downloads the Multi-Source Weighted-Ensemble Precipitation grids
// from the public GloH2O Google Drive share. The share is only reachable
// through rclone, which must be installed and configured with a GoogleDrive
// remote.
type MSWEP struct {
	product
	remote string
}

const (
	MSWEP_NRT     = "NRT"
	MSWEP_PAST    = "Past"
	MSWEP_PAST_NG = "Past_nogauge"

	mswepRemote = "GoogleDrive:/MSWEP_V280"
	mswepVar    = "precipitation"
)

var (
	mswepTimesteps = []string{TIMESTEP_3HOURLY, TIMESTEP_DAILY, TIMESTEP_MONTHLY}
	mswepDatasets  = []string{MSWEP_NRT, MSWEP_PAST, MSWEP_PAST_NG}
)

func NewMSWEP(tmpDir ...string) (m *MSWEP, err error) {
	if _, err = exec.LookPath("rclone"); err != nil {
		log.Error("MSWEP: rclone not installed", zap.Error(err))
		err = ErrRcloneMissing
		return
	}
	m = &MSWEP{
		product: newProduct("MSWEP:", optDir(tmpDir)),
		remote:  mswepRemote,
	}
	return
}

// RemotePath builds the rclone source path for one date.
func (m *MSWEP) RemotePath(date time.Time, timestep, dataset string) string {
	var dir, file string
	switch timestep {
	case TIMESTEP_3HOURLY:
		dir = "3hourly"
		file = fmt.Sprintf("%s%03d.%s.nc", date.Format("2006"), date.YearDay(), date.Format("15"))
	case TIMESTEP_DAILY:
		dir = "Daily"
		file = fmt.Sprintf("%s%03d.nc", date.Format("2006"), date.YearDay())
	default:
		dir = "Monthly"
		file = date.Format("200601") + ".nc"
	}
	return fmt.Sprintf("%s/%s/%s/%s", m.remote, dataset, dir, file)
}

func (m *MSWEP) sync(ctx context.Context, remotePath, dstDir string) (err error) {
	cmd := exec.CommandContext(ctx, "rclone", "sync", "-v", "--drive-shared-with-me", remotePath, dstDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Error(m.logTag+"rclone sync failed", zap.String("remote", remotePath),
			zap.ByteString("output", out), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return
}

// Download syncs one MSWEP slice and converts it into outpath, clipped when
// extent is set.
func (m *MSWEP) Download(ctx context.Context, date time.Time, timestep, dataset, outpath string, extent *Extent) (err error) {
	if err = validateOption(m.logTag, "timestep", timestep, mswepTimesteps, ErrBadTimestep); err != nil {
		return
	}
	if dataset == "NTR" {
		dataset = MSWEP_NRT
	}
	if err = validateOption(m.logTag, "dataset", dataset, mswepDatasets, ErrBadDataset); err != nil {
		return
	}
	dstDir, err := utils.GetUniqSubDir(m.tmpDir)
	if err != nil {
		return
	}
	defer os.RemoveAll(dstDir)
	remotePath := m.RemotePath(date, timestep, dataset)
	if err = m.sync(ctx, remotePath, dstDir); err != nil {
		return
	}
	tmpNC := filepath.Join(dstDir, filepath.Base(remotePath))
	tmpTif := filepath.Join(m.tmpDir, fmt.Sprintf(TMP_TIF, uuid.NewString()))
	if err = m.gdal.NetCDF2TIFF(tmpNC, tmpTif, GridOptions{
		Var:  mswepVar,
		Time: sliceStamp(date, timestep),
	}); err != nil {
		return
	}
	if err = m.finishRaster(tmpTif, outpath, extent, false); err != nil {
		return
	}
	log.Info(m.logTag+"downloaded", zap.String("dataset", dataset),
		zap.String("timestep", timestep), zap.Time("date", date), zap.String("out", outpath))
	return
}
