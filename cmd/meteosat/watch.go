package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	meteosat "github.com/jusethCS/meteosat"
	"github.com/jusethCS/meteosat/utils"
)

var (
	productArg string
	outDirArg  string
	everyArg   time.Duration
	lagArg     time.Duration
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&productArg, "product", "", "chirps, cmorph, imerg, mswep or persiann")
	watchCmd.Flags().StringVar(&outDirArg, "dir", ".", "directory receiving the fetched GeoTIFFs")
	watchCmd.Flags().DurationVar(&everyArg, "every", 30*time.Minute, "fetch interval")
	watchCmd.Flags().DurationVar(&lagArg, "lag", 4*time.Hour, "publication lag subtracted from now")
	watchCmd.Flags().StringVar(&timestepArg, "timestep", meteosat.TIMESTEP_DAILY, "product timestep")
	watchCmd.Flags().StringVar(&versionArg, "version", meteosat.IMERG_V07, "IMERG version")
	watchCmd.Flags().StringVar(&runArg, "run", meteosat.RUN_LATE, "IMERG run")
	watchCmd.Flags().StringVar(&datasetArg, "dataset", "", "MSWEP or PERSIANN dataset")
	watchCmd.Flags().StringVar(&extArg, "extent", "", "clip extent as N,S,E,W")
	watchCmd.Flags().StringVar(&userArg, "user", "", "earthdata login (env EARTHDATA_USER)")
	watchCmd.Flags().StringVar(&passArg, "pass", "", "earthdata password (env EARTHDATA_PASS)")
	watchCmd.MarkFlagRequired("product")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically fetch the newest slice of a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		extent, err := parseExtent(extArg)
		if err != nil {
			return err
		}
		fetch, err := buildFetcher(cmd.Context(), extent)
		if err != nil {
			return err
		}
		w := meteosat.NewWatcher(fetch, everyArg, lagArg)
		if err = w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		return nil
	},
}

// alignDate snaps a wall clock date onto the product's slice boundary.
func alignDate(date time.Time, timestep string) time.Time {
	switch timestep {
	case meteosat.TIMESTEP_30MIN:
		return date.Truncate(30 * time.Minute)
	case meteosat.TIMESTEP_HOURLY:
		return date.Truncate(time.Hour)
	case meteosat.TIMESTEP_3HOURLY:
		return date.Truncate(3 * time.Hour)
	case meteosat.TIMESTEP_6HOURLY:
		return date.Truncate(6 * time.Hour)
	case meteosat.TIMESTEP_MONTHLY:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	case meteosat.TIMESTEP_ANNUAL:
		return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
	default:
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	}
}

// slicePath partitions fetched slices into one folder per day.
func slicePath(date time.Time) (string, error) {
	dir, err := utils.GetDateSubDir(outDirArg, date.Format("20060102"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.tif", productArg, date.Format("200601021504"))), nil
}

func buildFetcher(ctx context.Context, extent *meteosat.Extent) (meteosat.Fetcher, error) {
	switch productArg {
	case "chirps":
		c := meteosat.NewCHIRPS(tmp())
		return func(ctx context.Context, date time.Time) error {
			date = alignDate(date, timestepArg)
			out, err := slicePath(date)
			if err != nil {
				return err
			}
			return c.Download(ctx, date, timestepArg, out, extent)
		}, nil
	case "cmorph":
		c := meteosat.NewCMORPH(tmp())
		return func(ctx context.Context, date time.Time) error {
			date = alignDate(date, timestepArg)
			out, err := slicePath(date)
			if err != nil {
				return err
			}
			return c.Download(ctx, date, timestepArg, out, extent)
		}, nil
	case "imerg":
		m, err := meteosat.NewIMERG(ctx,
			envOr("EARTHDATA_USER", userArg), envOr("EARTHDATA_PASS", passArg), tmp())
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, date time.Time) error {
			date = alignDate(date, timestepArg)
			out, err := slicePath(date)
			if err != nil {
				return err
			}
			return m.Download(ctx, date, versionArg, runArg, timestepArg, out, extent)
		}, nil
	case "mswep":
		m, err := meteosat.NewMSWEP(tmp())
		if err != nil {
			return nil, err
		}
		if datasetArg == "" {
			datasetArg = meteosat.MSWEP_NRT
		}
		return func(ctx context.Context, date time.Time) error {
			date = alignDate(date, timestepArg)
			out, err := slicePath(date)
			if err != nil {
				return err
			}
			return m.Download(ctx, date, timestepArg, datasetArg, out, extent)
		}, nil
	case "persiann":
		p := meteosat.NewPERSIANN(tmp())
		if datasetArg == "" {
			datasetArg = meteosat.DS_PERSIANN
		}
		return func(ctx context.Context, date time.Time) error {
			date = alignDate(date, timestepArg)
			out, err := slicePath(date)
			if err != nil {
				return err
			}
			return p.Download(ctx, date, timestepArg, datasetArg, out, extent)
		}, nil
	default:
		return nil, fmt.Errorf("unknown product %q", productArg)
	}
}
