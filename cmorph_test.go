package meteosat

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

func TestCmorphURL(t *testing.T) {
	c := NewCMORPH(t.TempDir())
	date := time.Date(2009, 1, 2, 13, 0, 0, 0, time.UTC)
	base := CMORPH_SERVER + "/cmorph-high-resolution-global-precipitation-estimates/access"
	cases := []struct{ timestep, want string }{
		{TIMESTEP_30MIN, base + "/30min/8km/2009/01/02/CMORPH_V1.0_ADJ_8km-30min_2009010213.nc"},
		{TIMESTEP_HOURLY, base + "/hourly/0.25deg/2009/01/02/CMORPH_V1.0_ADJ_0.25deg-HLY_2009010213.nc"},
		{TIMESTEP_DAILY, base + "/daily/0.25deg/2009/01/CMORPH_V1.0_ADJ_0.25deg-DLY_00Z_20090102.nc"},
	}
	for _, cs := range cases {
		if got := c.URL(date, cs.timestep); got != cs.want {
			t.Fatalf("%s:\n got %s\nwant %s", cs.timestep, got, cs.want)
		}
	}
}

// A coarse stand-in for the real grid: stored south up on [0,360) longitudes
// and spanning exactly the default coverage band after conversion.
func TestCmorphDownload(t *testing.T) {
	dir := t.TempDir()
	nc := filepath.Join(dir, "cmorph.nc")
	writeGridFile(t, nc, gridFixture{
		timeUnits: "hours since 2020-06-01 00:00:00",
		times:     []int32{0},
		lat:       []float64{-30, 30},
		lon:       []float64{90, 270},
		varName:   cmorphVar,
		data: []float32{
			5, -6,
			7, 8,
		},
	})

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		http.ServeFile(w, r, nc)
	}))
	defer srv.Close()

	c := NewCMORPH(dir)
	c.server = srv.URL
	out := filepath.Join(dir, "out.tif")
	date := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := c.Download(context.Background(), date, TIMESTEP_DAILY, out, nil); err != nil {
		t.Fatal(err)
	}
	if want := "/cmorph-high-resolution-global-precipitation-estimates/access" +
		"/daily/0.25deg/2020/06/CMORPH_V1.0_ADJ_0.25deg-DLY_00Z_20200601.nc"; gotPath != want {
		t.Fatalf("path %s, want %s", gotPath, want)
	}
	r, err := c.gdal.ReadRaster(out)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 2 || r.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", r.Width, r.Height)
	}
	// flipped north up, wrapped to [-180,180), negatives turned into NaN
	if r.Data[0] != 8 || r.Data[1] != 7 || r.Data[3] != 5 {
		t.Fatalf("data %v", r.Data)
	}
	if !math.IsNaN(r.Data[2]) {
		t.Fatalf("data[2] = %v, want NaN", r.Data[2])
	}
	if want := (GeoTransform{-180, 180, 0, 60, 0, -60}); r.Transform != want {
		t.Fatalf("transform %v, want %v", r.Transform, want)
	}
}
