package main

import (
	"fmt"

	"github.com/spf13/cobra"

	meteosat "github.com/jusethCS/meteosat"
)

var (
	ncPath   string
	varArg   string
	timeArg  string
	flipArg  bool
	wrapArg  bool
	transArg bool
	multiArg bool
	tifPath  string
	lonArg   float64
	latArg   float64
)

func init() {
	rootCmd.AddCommand(convertCmd, probeCmd)

	convertCmd.Flags().StringVar(&ncPath, "nc", "", "input NetCDF file")
	convertCmd.Flags().StringVar(&varArg, "var", "", "variable to extract")
	convertCmd.Flags().StringVar(&timeArg, "time", "", "time coordinate to select, \"YYYY-MM-DD HH:MM\"")
	convertCmd.Flags().BoolVar(&flipArg, "flip", false, "reverse the row order")
	convertCmd.Flags().BoolVar(&wrapArg, "wrap", false, "rewrap a [0,360) longitude axis to [-180,180)")
	convertCmd.Flags().BoolVar(&transArg, "transpose", false, "swap the variable's row and column axes")
	convertCmd.Flags().BoolVar(&multiArg, "multidim", false, "collapse a leading extra dimension")
	convertCmd.Flags().StringVar(&outPath, "out", "", "output GeoTIFF path (defaults beside the input)")
	convertCmd.MarkFlagRequired("nc")
	convertCmd.MarkFlagRequired("var")
	convertCmd.MarkFlagRequired("time")

	probeCmd.Flags().StringVar(&tifPath, "tif", "", "GeoTIFF to probe")
	probeCmd.Flags().Float64Var(&lonArg, "lon", 0, "longitude of the probe point")
	probeCmd.Flags().Float64Var(&latArg, "lat", 0, "latitude of the probe point")
	probeCmd.MarkFlagRequired("tif")
	probeCmd.MarkFlagRequired("lon")
	probeCmd.MarkFlagRequired("lat")
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert one NetCDF time slice to a WGS84 GeoTIFF",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := meteosat.NewGdalToolbox(tmp())
		return g.NetCDF2TIFF(ncPath, outPath, meteosat.GridOptions{
			Var:        varArg,
			Time:       timeArg,
			Flip:       flipArg,
			Correction: wrapArg,
			Transpose:  transArg,
			MultiDim:   multiArg,
		})
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print the raster value at one coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := meteosat.NewGdalToolbox(tmp())
		v, err := g.ProbeRaster(tifPath, lonArg, latArg)
		if err != nil {
			return err
		}
		fmt.Printf("%s @ (%g, %g) = %g\n", tifPath, lonArg, latArg, v)
		return nil
	},
}
