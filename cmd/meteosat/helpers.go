package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	meteosat "github.com/jusethCS/meteosat"
)

var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15",
	"2006-01-02",
	"2006-01",
	"2006",
}

func parseDate(arg string) (t time.Time, err error) {
	for _, layout := range dateLayouts {
		if t, err = time.ParseInLocation(layout, arg, time.UTC); err == nil {
			return
		}
	}
	err = fmt.Errorf("unrecognized date %q", arg)
	return
}

// parseExtent reads a "N,S,E,W" argument. Empty means no clipping.
func parseExtent(arg string) (*meteosat.Extent, error) {
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("extent wants N,S,E,W, got %q", arg)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("extent wants N,S,E,W, got %q", arg)
		}
		vals[i] = v
	}
	return &meteosat.Extent{North: vals[0], South: vals[1], East: vals[2], West: vals[3]}, nil
}

func envOr(key, val string) string {
	if val != "" {
		return val
	}
	return os.Getenv(key)
}

// addFetchFlags wires the flags every download command shares.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dateArg, "date", "", "date of the slice, e.g. \"2020-06-01 12:30\"")
	cmd.Flags().StringVar(&outPath, "out", "", "output GeoTIFF path")
	cmd.Flags().StringVar(&extArg, "extent", "", "clip extent as N,S,E,W")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("out")
}
