package meteosat

const (
	// every product is served and written in geographic WGS84
	WGS84_PROJ4 = "+proj=longlat +datum=WGS84 +no_defs +ellps=WGS84 +towgs84=0,0,0"

	FILE_EXT_TIF = ".tif"
	FILE_EXT_NC  = ".nc"

	TIME_LAYOUT = "2006-01-02 15:04"

	VAR_TIME = "time"
	VAR_LAT  = "lat"
	VAR_LON  = "lon"

	UNIVERSAL_SRID = 4326

	// relative tolerance of the uniform grid spacing gate
	SPACING_RTOL = 1e-6

	CHIRPS_SERVER       = "https://data.chc.ucsb.edu"
	CMORPH_SERVER       = "https://www.ncei.noaa.gov/data"
	GPM_SERVER          = "https://gpm1.gesdisc.eosdis.nasa.gov/opendap"
	EARTHDATA_AUTH_HOST = "urs.earthdata.nasa.gov"
	EARTHDATA_HOST      = "https://" + EARTHDATA_AUTH_HOST
	CHRS_SERVER         = "https://chrsdata.eng.uci.edu"

	TMP_GEOJSON = "geo_%s.json"
	TMP_TIF     = "ras_%s.tif"
	TMP_NC      = "grid_%s.nc"
	TMP_GZ      = "arc_%s.gz"
	TMP_ZIP     = "arc_%s.zip"

	TIMESTEP_30MIN   = "30min"
	TIMESTEP_HOURLY  = "hourly"
	TIMESTEP_3HOURLY = "3hourly"
	TIMESTEP_6HOURLY = "6hourly"
	TIMESTEP_DAILY   = "daily"
	TIMESTEP_MONTHLY = "monthly"
	TIMESTEP_ANNUAL  = "annual"
)
