package meteosat

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PERSIANN downloads the CHRS data portal family of precipitation estimates.
// The portal stages a zip on request, expects a confirmation call, then
// serves the archive from a per-client folder. The shipped GeoTIFF carries no
// CRS, so one is stamped on after extraction.
type PERSIANN struct {
	product
	server string
}

const (
	DS_PERSIANN = "PERSIANN"
	DS_CCS      = "CCS"
	DS_CDR      = "CDR"
	DS_PDIR     = "PDIR"

	persiannEmail = "prueba@gmail.com"
)

var (
	persiannTimesteps = []string{TIMESTEP_HOURLY, TIMESTEP_3HOURLY, TIMESTEP_6HOURLY,
		TIMESTEP_DAILY, TIMESTEP_MONTHLY, TIMESTEP_ANNUAL}
	persiannDatasets = []string{DS_PERSIANN, DS_CCS, DS_CDR, DS_PDIR}
	persiannSubdaily = []string{TIMESTEP_HOURLY, TIMESTEP_3HOURLY, TIMESTEP_6HOURLY}

	persiannFolders = map[string]string{
		DS_PERSIANN: "PERSIANN",
		DS_CCS:      "PERSIANN-CCS",
		DS_CDR:      "PERSIANN-CDR",
		DS_PDIR:     "PDIR",
	}
)

type chrsReply struct {
	UserIP  string `json:"userIP"`
	ZipFile string `json:"zipFile"`
}

func NewPERSIANN(tmpDir ...string) *PERSIANN {
	return &PERSIANN{
		product: newProduct("PERSIANN:", optDir(tmpDir)),
		server:  CHRS_SERVER,
	}
}

// persiannParams maps one date and timestep to the portal form words. The
// public "annual" timestep is "yearly" on the portal.
func persiannParams(date time.Time, timestep, dataset string) url.Values {
	var ds, dtm, dtx string
	switch timestep {
	case TIMESTEP_HOURLY:
		ds, dtm, dtx = date.Format("2006010215"), "1hrly", "1h"
	case TIMESTEP_3HOURLY:
		ds, dtm, dtx = date.Format("2006010215"), "3hrly", "3h"
	case TIMESTEP_6HOURLY:
		ds, dtm, dtx = date.Format("2006010215"), "6hrly", "6h"
	case TIMESTEP_DAILY:
		ds, dtm, dtx = date.Format("20060102"), "daily", "1d"
	case TIMESTEP_MONTHLY:
		ds, dtm, dtx = date.Format("200601"), "monthly", "1m"
	default:
		ds, dtm, dtx = date.Format("2006"), "yearly", "1y"
	}
	return url.Values{
		"startDate":   {ds},
		"endDate":     {ds},
		"timestep":    {dtm},
		"timestepAlt": {dtx},
		"dataType":    {dataset},
		"format":      {"Tif"},
		"compression": {"zip"},
	}
}

// Download stages, confirms and fetches one slice into outpath, clipped when
// extent is set.
func (p *PERSIANN) Download(ctx context.Context, date time.Time, timestep, dataset, outpath string, extent *Extent) (err error) {
	if err = validateOption(p.logTag, "timestep", timestep, persiannTimesteps, ErrBadTimestep); err != nil {
		return
	}
	if err = validateOption(p.logTag, "dataset", dataset, persiannDatasets, ErrBadDataset); err != nil {
		return
	}
	if dataset == DS_CDR && utils.ContainsAny(persiannSubdaily, []string{timestep}) {
		log.Error(p.logTag + "CDR is not served at sub daily timesteps")
		err = ErrBadTimestep
		return
	}
	params := persiannParams(date, timestep, dataset)
	var reply chrsReply
	if err = p.dl.FetchJSON(ctx, p.server+"/php/downloadWholeData.php?"+params.Encode(), &reply); err != nil {
		return
	}
	if reply.UserIP == "" || reply.ZipFile == "" {
		log.Error(p.logTag+"portal staged no file", zap.String("userIP", reply.UserIP),
			zap.String("zipFile", reply.ZipFile))
		err = ErrBadQueryReply
		return
	}
	fileURL := fmt.Sprintf("%s/userFile/%s/temp/%s/%s_%s.zip",
		p.server, reply.UserIP, persiannFolders[dataset], dataset, reply.ZipFile)
	confirm := url.Values{
		"email":            {persiannEmail},
		"downloadLink":     {fileURL},
		"fileExtension":    {"zip"},
		"dataType":         {dataset},
		"startDate":        {params.Get("startDate")},
		"endDate":          {params.Get("endDate")},
		"timestep":         {params.Get("timestep")},
		"domain":           {"wholemap"},
		"domain_parameter": {"undefined"},
	}
	if _, err = p.dl.FetchBytes(ctx, p.server+"/php/emailDownload.php?"+confirm.Encode()); err != nil {
		return
	}
	dstDir, err := utils.GetUniqSubDir(p.tmpDir)
	if err != nil {
		return
	}
	defer os.RemoveAll(dstDir)
	tmpZip := filepath.Join(dstDir, fmt.Sprintf(TMP_ZIP, uuid.NewString()))
	if err = p.dl.FetchFile(ctx, fileURL, tmpZip); err != nil {
		return
	}
	tif, err := utils.GetTifInZip(tmpZip, dstDir)
	if err != nil {
		log.Error(p.logTag+"bad archive", zap.String("zip", fileURL), zap.Error(err))
		err = ErrEmptyArchive
		return
	}
	tmpTif := filepath.Join(p.tmpDir, fmt.Sprintf(TMP_TIF, uuid.NewString()))
	if err = p.gdal.RewriteCRS(tif, tmpTif); err != nil {
		return
	}
	if err = p.finishRaster(tmpTif, outpath, extent, false); err != nil {
		return
	}
	log.Info(p.logTag+"downloaded", zap.String("dataset", dataset),
		zap.String("timestep", timestep), zap.Time("date", date), zap.String("out", outpath))
	return
}
