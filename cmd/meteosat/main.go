package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jusethCS/meteosat/log"
)

var (
	tmpDir  string
	outPath string
	dateArg string
	extArg  string
)

var rootCmd = &cobra.Command{
	Use:   "meteosat",
	Short: "Download and convert satellite precipitation products",
	Long: `meteosat fetches CHIRPS, CMORPH, IMERG, MSWEP and PERSIANN
precipitation grids and converts them to WGS84 GeoTIFF files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tmpDir, "tmp", "", "working directory for temporary files (env METEOSAT_TMP)")
}

// tmp resolves the temporary directory after the environment is loaded.
func tmp() string {
	if tmpDir != "" {
		return tmpDir
	}
	return os.Getenv("METEOSAT_TMP")
}

func main() {
	// a .env beside the binary is optional
	_ = godotenv.Load()
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
