package meteosat

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPersiannParams(t *testing.T) {
	date := time.Date(2020, 6, 1, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		timestep string
		start    string
		dtm      string
		dtx      string
	}{
		{TIMESTEP_HOURLY, "2020060115", "1hrly", "1h"},
		{TIMESTEP_3HOURLY, "2020060115", "3hrly", "3h"},
		{TIMESTEP_6HOURLY, "2020060115", "6hrly", "6h"},
		{TIMESTEP_DAILY, "20200601", "daily", "1d"},
		{TIMESTEP_MONTHLY, "202006", "monthly", "1m"},
		{TIMESTEP_ANNUAL, "2020", "yearly", "1y"},
	}
	for _, c := range cases {
		p := persiannParams(date, c.timestep, DS_CCS)
		if p.Get("startDate") != c.start || p.Get("endDate") != c.start {
			t.Fatalf("%s: dates %s/%s, want %s", c.timestep, p.Get("startDate"), p.Get("endDate"), c.start)
		}
		if p.Get("timestep") != c.dtm || p.Get("timestepAlt") != c.dtx {
			t.Fatalf("%s: got %s/%s, want %s/%s",
				c.timestep, p.Get("timestep"), p.Get("timestepAlt"), c.dtm, c.dtx)
		}
		if p.Get("dataType") != DS_CCS || p.Get("format") != "Tif" || p.Get("compression") != "zip" {
			t.Fatalf("%s: fixed fields wrong: %v", c.timestep, p)
		}
	}
}

func TestPersiannValidation(t *testing.T) {
	p := NewPERSIANN(t.TempDir())
	date := time.Now()
	if err := p.Download(context.Background(), date, "weekly", DS_PERSIANN, "o.tif", nil); !errors.Is(err, ErrBadTimestep) {
		t.Fatalf("err = %v, want ErrBadTimestep", err)
	}
	if err := p.Download(context.Background(), date, TIMESTEP_DAILY, "TRMM", "o.tif", nil); !errors.Is(err, ErrBadDataset) {
		t.Fatalf("err = %v, want ErrBadDataset", err)
	}
	// the climate data record starts at daily resolution
	if err := p.Download(context.Background(), date, TIMESTEP_HOURLY, DS_CDR, "o.tif", nil); !errors.Is(err, ErrBadTimestep) {
		t.Fatalf("err = %v, want ErrBadTimestep", err)
	}
}

func TestPersiannDownload(t *testing.T) {
	dir := t.TempDir()
	p := NewPERSIANN(dir)

	src := filepath.Join(dir, "src.tif")
	if err := p.gdal.WriteRaster(src, testRaster()); err != nil {
		t.Fatal(err)
	}
	tifBytes, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	archive := filepath.Join(dir, "staged.zip")
	zf, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(zf)
	member, err := zw.Create("rain.tif")
	if err != nil {
		t.Fatal(err)
	}
	member.Write(tifBytes)
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
	zf.Close()

	var staged, confirmed url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/php/downloadWholeData.php", func(w http.ResponseWriter, r *http.Request) {
		staged = r.URL.Query()
		fmt.Fprint(w, `{"userIP":"10.9.8.7","zipFile":"xyz123"}`)
	})
	mux.HandleFunc("/php/emailDownload.php", func(w http.ResponseWriter, r *http.Request) {
		confirmed = r.URL.Query()
		fmt.Fprint(w, "OK")
	})
	mux.HandleFunc("/userFile/10.9.8.7/temp/PDIR/PDIR_xyz123.zip", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, archive)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	p.server = srv.URL

	out := filepath.Join(dir, "out.tif")
	date := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	if err = p.Download(context.Background(), date, TIMESTEP_DAILY, DS_PDIR, out, nil); err != nil {
		t.Fatal(err)
	}
	if staged.Get("startDate") != "20200601" || staged.Get("dataType") != DS_PDIR {
		t.Fatalf("staging query %v", staged)
	}
	if confirmed.Get("email") == "" || confirmed.Get("downloadLink") == "" {
		t.Fatalf("confirmation query %v", confirmed)
	}
	r, err := p.gdal.ReadRaster(out)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("got %dx%d, want 3x2", r.Width, r.Height)
	}
	for i, v := range testRaster().Data {
		if r.Data[i] != v {
			t.Fatalf("data %v", r.Data)
		}
	}
}
