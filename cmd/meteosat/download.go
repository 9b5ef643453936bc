package main

import (
	"github.com/spf13/cobra"

	meteosat "github.com/jusethCS/meteosat"
)

var (
	timestepArg string
	versionArg  string
	runArg      string
	datasetArg  string
	userArg     string
	passArg     string
)

func init() {
	rootCmd.AddCommand(chirpsCmd, cmorphCmd, imergCmd, mswepCmd, persiannCmd)

	addFetchFlags(chirpsCmd)
	chirpsCmd.Flags().StringVar(&timestepArg, "timestep", meteosat.TIMESTEP_DAILY, "daily, monthly or annual")

	addFetchFlags(cmorphCmd)
	cmorphCmd.Flags().StringVar(&timestepArg, "timestep", meteosat.TIMESTEP_DAILY, "30min, hourly or daily")

	addFetchFlags(imergCmd)
	imergCmd.Flags().StringVar(&timestepArg, "timestep", meteosat.TIMESTEP_30MIN, "30min, daily or monthly")
	imergCmd.Flags().StringVar(&versionArg, "version", meteosat.IMERG_V07, "v06 or v07")
	imergCmd.Flags().StringVar(&runArg, "run", meteosat.RUN_FINAL, "early, late or final")
	imergCmd.Flags().StringVar(&userArg, "user", "", "earthdata login (env EARTHDATA_USER)")
	imergCmd.Flags().StringVar(&passArg, "pass", "", "earthdata password (env EARTHDATA_PASS)")

	addFetchFlags(mswepCmd)
	mswepCmd.Flags().StringVar(&timestepArg, "timestep", meteosat.TIMESTEP_3HOURLY, "3hourly, daily or monthly")
	mswepCmd.Flags().StringVar(&datasetArg, "dataset", meteosat.MSWEP_NRT, "NRT, Past or Past_nogauge")

	addFetchFlags(persiannCmd)
	persiannCmd.Flags().StringVar(&timestepArg, "timestep", meteosat.TIMESTEP_DAILY,
		"hourly, 3hourly, 6hourly, daily, monthly or annual")
	persiannCmd.Flags().StringVar(&datasetArg, "dataset", meteosat.DS_PERSIANN, "PERSIANN, CCS, CDR or PDIR")
}

var chirpsCmd = &cobra.Command{
	Use:   "chirps",
	Short: "Download a CHIRPS slice as GeoTIFF",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg)
		if err != nil {
			return err
		}
		extent, err := parseExtent(extArg)
		if err != nil {
			return err
		}
		return meteosat.NewCHIRPS(tmp()).Download(cmd.Context(), date, timestepArg, outPath, extent)
	},
}

var cmorphCmd = &cobra.Command{
	Use:   "cmorph",
	Short: "Download a CMORPH slice as GeoTIFF",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg)
		if err != nil {
			return err
		}
		extent, err := parseExtent(extArg)
		if err != nil {
			return err
		}
		return meteosat.NewCMORPH(tmp()).Download(cmd.Context(), date, timestepArg, outPath, extent)
	},
}

var imergCmd = &cobra.Command{
	Use:   "imerg",
	Short: "Download a GPM IMERG slice as GeoTIFF",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg)
		if err != nil {
			return err
		}
		extent, err := parseExtent(extArg)
		if err != nil {
			return err
		}
		m, err := meteosat.NewIMERG(cmd.Context(),
			envOr("EARTHDATA_USER", userArg), envOr("EARTHDATA_PASS", passArg), tmp())
		if err != nil {
			return err
		}
		return m.Download(cmd.Context(), date, versionArg, runArg, timestepArg, outPath, extent)
	},
}

var mswepCmd = &cobra.Command{
	Use:   "mswep",
	Short: "Download an MSWEP slice as GeoTIFF (needs rclone)",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg)
		if err != nil {
			return err
		}
		extent, err := parseExtent(extArg)
		if err != nil {
			return err
		}
		m, err := meteosat.NewMSWEP(tmp())
		if err != nil {
			return err
		}
		return m.Download(cmd.Context(), date, timestepArg, datasetArg, outPath, extent)
	},
}

var persiannCmd = &cobra.Command{
	Use:   "persiann",
	Short: "Download a PERSIANN family slice as GeoTIFF",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg)
		if err != nil {
			return err
		}
		extent, err := parseExtent(extArg)
		if err != nil {
			return err
		}
		return meteosat.NewPERSIANN(tmp()).Download(cmd.Context(), date, timestepArg, datasetArg, outPath, extent)
	},
}
