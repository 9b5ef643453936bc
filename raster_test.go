package meteosat

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testRaster() *Raster {
	return &Raster{
		Data:      []float64{1, 2, 3, 4, 5, 6},
		Width:     3,
		Height:    2,
		Transform: GeoTransform{-10.5, 1, 0, 10.5, 0, -1},
		Pixel:     PixelFloat32,
	}
}

func TestWriteReadRaster(t *testing.T) {
	g := NewGdalToolbox(t.TempDir())
	tif := filepath.Join(t.TempDir(), "out.tif")
	if err := g.WriteRaster(tif, testRaster()); err != nil {
		t.Fatal(err)
	}
	r, err := g.ReadRaster(tif)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("got %dx%d, want 3x2", r.Width, r.Height)
	}
	if r.Transform != testRaster().Transform {
		t.Fatalf("transform %v", r.Transform)
	}
	if r.Pixel != PixelFloat32 {
		t.Fatalf("pixel %v, want %v", r.Pixel, PixelFloat32)
	}
	for i, v := range testRaster().Data {
		if r.Data[i] != v {
			t.Fatalf("data %v", r.Data)
		}
	}
}

func TestNetCDF2TIFF(t *testing.T) {
	dir := t.TempDir()
	nc := filepath.Join(dir, "grid.nc")
	writeGridFile(t, nc, identityFixture())
	g := NewGdalToolbox(dir)
	// empty output path derives the tif beside the source
	if err := g.NetCDF2TIFF(nc, "", GridOptions{Var: "precip", Time: "2020-06-01 00:00"}); err != nil {
		t.Fatal(err)
	}
	r, err := g.ReadRaster(filepath.Join(dir, "grid.tif"))
	if err != nil {
		t.Fatal(err)
	}
	if want := (GeoTransform{-10.5, 1, 0, 10.5, 0, -1}); r.Transform != want {
		t.Fatalf("transform %v, want %v", r.Transform, want)
	}
	for i, v := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9} {
		if r.Data[i] != v {
			t.Fatalf("data %v", r.Data)
		}
	}
}

func TestNetCDF2TIFFMissingStamp(t *testing.T) {
	dir := t.TempDir()
	nc := filepath.Join(dir, "grid.nc")
	writeGridFile(t, nc, identityFixture())
	g := NewGdalToolbox(dir)
	out := filepath.Join(dir, "out.tif")
	err := g.NetCDF2TIFF(nc, out, GridOptions{Var: "precip", Time: "2020-06-02 00:00"})
	if !errors.Is(err, ErrTimeNotFound) {
		t.Fatalf("err = %v, want ErrTimeNotFound", err)
	}
	if _, err = os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output written despite failed selection")
	}
}

func TestClipRasterToExtent(t *testing.T) {
	dir := t.TempDir()
	g := NewGdalToolbox(dir)
	src := filepath.Join(dir, "src.tif")
	err := g.WriteRaster(src, &Raster{
		Data: []float64{
			1, 2, 3, 4,
			5, -6, 7, 8,
			9, 10, 11, 12,
			13, 14, 15, 16,
		},
		Width:     4,
		Height:    4,
		Transform: GeoTransform{-2, 1, 0, 2, 0, -1},
		Pixel:     PixelFloat32,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "clip.tif")
	if err = g.ClipRasterToExtent(src, out, Extent{North: 1, South: -1, East: 1, West: -1}, false); err != nil {
		t.Fatal(err)
	}
	r, err := g.ReadRaster(out)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 2 || r.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", r.Width, r.Height)
	}
	// the negative cell inside the window is clamped to zero
	for i, v := range []float64{0, 7, 10, 11} {
		if r.Data[i] != v {
			t.Fatalf("data %v", r.Data)
		}
	}
}

func TestRewriteCRS(t *testing.T) {
	dir := t.TempDir()
	g := NewGdalToolbox(dir)
	src := filepath.Join(dir, "src.tif")
	if err := g.WriteRaster(src, testRaster()); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "crs.tif")
	if err := g.RewriteCRS(src, out); err != nil {
		t.Fatal(err)
	}
	r, err := g.ReadRaster(out)
	if err != nil {
		t.Fatal(err)
	}
	if r.Transform != testRaster().Transform {
		t.Fatalf("transform %v", r.Transform)
	}
	for i, v := range testRaster().Data {
		if r.Data[i] != v {
			t.Fatalf("data %v", r.Data)
		}
	}
}

func TestProbeRaster(t *testing.T) {
	dir := t.TempDir()
	g := NewGdalToolbox(dir)
	tif := filepath.Join(dir, "probe.tif")
	if err := g.WriteRaster(tif, testRaster()); err != nil {
		t.Fatal(err)
	}
	v, err := g.ProbeRaster(tif, -10.2, 10.3)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("value = %v, want 1", v)
	}
	if v, err = g.ProbeRaster(tif, -8.2, 9.3); err != nil {
		t.Fatal(err)
	}
	if v != 6 {
		t.Fatalf("value = %v, want 6", v)
	}
	if _, err = g.ProbeRaster(tif, 0, 0); !errors.Is(err, ErrWrongRasterOffset) {
		t.Fatalf("err = %v, want ErrWrongRasterOffset", err)
	}
}
