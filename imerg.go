package meteosat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jusethCS/meteosat/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IMERG downloads the GPM Integrated Multi-satellitE Retrievals product from
// the NASA GES DISC OPeNDAP servers. An Earthdata account is required; the
// constructor verifies it and persists the OPeNDAP credential files.
type IMERG struct {
	product
	server  string
	server2 string
}

const (
	IMERG_V06 = "v06"
	IMERG_V07 = "v07"

	RUN_EARLY = "early"
	RUN_LATE  = "late"
	RUN_FINAL = "final"
)

var (
	imergVersions  = []string{IMERG_V06, IMERG_V07}
	imergRuns      = []string{RUN_EARLY, RUN_LATE, RUN_FINAL}
	imergTimesteps = []string{TIMESTEP_30MIN, TIMESTEP_DAILY, TIMESTEP_MONTHLY}
)

func NewIMERG(ctx context.Context, user, pass string, tmpDir ...string) (m *IMERG, err error) {
	if user == "" || pass == "" {
		log.Error("IMERG: earthdata account not provided")
		err = ErrAuthFailed
		return
	}
	m = &IMERG{
		product: newProduct("IMERG:", optDir(tmpDir)),
		server:  GPM_SERVER + "/GPM_L3",
		server2: GPM_SERVER + "/hyrax/GPM_L3",
	}
	m.dl.SetAuth(EARTHDATA_AUTH_HOST, user, pass)
	if err = VerifyEarthdataLogin(ctx, m.dl, user, pass); err != nil {
		m = nil
		return
	}
	err = WriteEarthdataRC("", user, pass)
	return
}

// buildQuery resolves the OPeNDAP object for one slice. The trailing '?'
// asks the server for the file converted whole.
func (m *IMERG) buildQuery(date time.Time, version, run, timestep string) (url, varName string, multiDim bool, err error) {
	vv := strings.TrimPrefix(version, "v")
	year := date.Format("2006")
	month := date.Format("01")
	actual := date.Format("20060102")
	julian := fmt.Sprintf("%03d", date.YearDay())
	end := date.Add(1799 * time.Second)

	varName = "precipitation"
	if version == IMERG_V06 {
		varName = "precipitationCal"
	}
	multiDim = true

	switch run {
	case RUN_FINAL:
		switch timestep {
		case TIMESTEP_30MIN:
			url = fmt.Sprintf("%s/GPM_3IMERGHH.%s/%s/%s/3B-HHR.MS.MRG.3IMERG.%s-S%s-E%s.%s.V%sB.HDF5.nc4?",
				m.server, vv, year, julian, actual,
				date.Format("150405"), end.Format("150405"), minuteCode(date), vv)
		case TIMESTEP_DAILY:
			url = fmt.Sprintf("%s/GPM_3IMERGDF.%s/%s/%s/3B-DAY.MS.MRG.3IMERG.%s-S000000-E235959.V%s",
				m.server, vv, year, month, actual, vv)
			if version == IMERG_V07 {
				url += "B.nc4.nc4?"
				multiDim = false
			} else {
				url += ".nc4.nc4?"
			}
		default:
			url = fmt.Sprintf("%s/GPM_3IMERGM.%s/%s/3B-MO.MS.MRG.3IMERG.%s01-S000000-E235959.%s.V%sB.HDF5.nc4?",
				m.server, vv, year, date.Format("200601"), month, vv)
			varName = "precipitation"
		}
	default:
		tag, dir, dayDir := "E", "HHE", "DE"
		if run == RUN_LATE {
			tag, dir, dayDir = "L", "HHL", "DL"
		}
		switch timestep {
		case TIMESTEP_30MIN:
			url = fmt.Sprintf("%s/GPM_3IMERG%s.%s/%s/%s/3B-HHR-%s.MS.MRG.3IMERG.%s-S%s-E%s.%s.V%sB.HDF5.nc4?",
				m.server2, dir, vv, year, julian, tag, actual,
				date.Format("150405"), end.Format("150405"), minuteCode(date), vv)
		case TIMESTEP_DAILY:
			url = fmt.Sprintf("%s/GPM_3IMERG%s.%s/%s/%s/3B-DAY-%s.MS.MRG.3IMERG.%s-S000000-E235959.V%s.nc4.nc4?",
				m.server, dayDir, vv, year, month, tag, actual, vv)
		default:
			log.Error(m.logTag + "monthly data is only served for the final run")
			err = ErrBadRun
		}
	}
	return
}

// Download fetches one IMERG slice into outpath, clipped when extent is set.
func (m *IMERG) Download(ctx context.Context, date time.Time, version, run, timestep, outpath string, extent *Extent) (err error) {
	if err = validateOption(m.logTag, "version", version, imergVersions, ErrBadVersion); err != nil {
		return
	}
	if err = validateOption(m.logTag, "run", run, imergRuns, ErrBadRun); err != nil {
		return
	}
	if err = validateOption(m.logTag, "timestep", timestep, imergTimesteps, ErrBadTimestep); err != nil {
		return
	}
	url, varName, multiDim, err := m.buildQuery(date, version, run, timestep)
	if err != nil {
		return
	}
	tmpNC := filepath.Join(m.tmpDir, fmt.Sprintf(TMP_NC, uuid.NewString()))
	if err = m.dl.FetchFile(ctx, url, tmpNC); err != nil {
		return
	}
	defer os.Remove(tmpNC)
	tmpTif := filepath.Join(m.tmpDir, fmt.Sprintf(TMP_TIF, uuid.NewString()))
	if err = m.gdal.NetCDF2TIFF(tmpNC, tmpTif, GridOptions{
		Var:       varName,
		Time:      sliceStamp(date, timestep),
		Flip:      true,
		Transpose: true,
		MultiDim:  multiDim,
	}); err != nil {
		return
	}
	if err = m.finishRaster(tmpTif, outpath, extent, false); err != nil {
		return
	}
	log.Info(m.logTag+"downloaded", zap.String("run", run), zap.String("timestep", timestep),
		zap.Time("date", date), zap.String("out", outpath))
	return
}
