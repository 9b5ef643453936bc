package meteosat

import "errors"

var (
	ErrTimeNotFound      = errors.New("timestamp not found in time coordinate")
	ErrVarNotFound       = errors.New("variable not found in dataset")
	ErrNoCoordinate      = errors.New("missing coordinate variable")
	ErrBadTimeUnits      = errors.New("unsupported time units attribute")
	ErrBadShape          = errors.New("data is not 2-D after selection")
	ErrShortAxis         = errors.New("coordinate axis too short")
	ErrNonUniformGrid    = errors.New("coordinate spacing is not uniform")
	ErrOddWrapAxis       = errors.New("wrap correction needs an even longitude axis")
	ErrBadTimestep       = errors.New("unsupported timestep")
	ErrBadDataset        = errors.New("unsupported dataset")
	ErrBadVersion        = errors.New("unsupported version")
	ErrBadRun            = errors.New("unsupported run")
	ErrAuthFailed        = errors.New("earthdata login failed")
	ErrRcloneMissing     = errors.New("rclone not found in PATH")
	ErrEmptyArchive      = errors.New("no tif in archive")
	ErrDownloadFailed    = errors.New("download failed")
	ErrBadQueryReply     = errors.New("malformed data portal reply")
	ErrInvalidWKT        = errors.New("invalid WKT")
	ErrInvalidTif        = errors.New("invalid tif")
	ErrWrongTif          = errors.New("wrong tif")
	ErrTifReadFailed     = errors.New("tif read failed")
	ErrEmptyTif          = errors.New("empty tif")
	ErrWrongRasterOffset = errors.New("wrong raster offset")
)
