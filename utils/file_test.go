package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestUngzip(t *testing.T) {
	dir := t.TempDir()
	gzFile := filepath.Join(dir, "payload.gz")
	f, err := os.Create(gzFile)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	zw.Write([]byte("hello grid"))
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dst := filepath.Join(dir, "payload.bin")
	if err = Ungzip(gzFile, dst); err != nil {
		t.Fatal(err)
	}
	body, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "hello grid" {
		t.Fatalf("body %q", body)
	}

	// a truncated archive must not leave a partial output behind
	if err = os.WriteFile(gzFile, []byte("not gzip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err = Ungzip(gzFile, dst+".bad"); err == nil {
		t.Fatal("expected error")
	}
	if _, err = os.Stat(dst + ".bad"); !os.IsNotExist(err) {
		t.Fatal("partial output left behind")
	}
}

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(body))
	}
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestUnzipFlattens(t *testing.T) {
	dir := t.TempDir()
	zipFile := filepath.Join(dir, "arc.zip")
	writeZip(t, zipFile, map[string]string{
		"nested/deep/data.txt": "abc",
		"top.txt":              "xyz",
	})
	files, err := Unzip(zipFile, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files %v", files)
	}
	body, err := os.ReadFile(filepath.Join(dir, "data.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "abc" {
		t.Fatalf("body %q", body)
	}
}

func TestGetTifInZip(t *testing.T) {
	dir := t.TempDir()
	zipFile := filepath.Join(dir, "arc.zip")
	writeZip(t, zipFile, map[string]string{
		"readme.txt":    "doc",
		"rain/2020.TIF": "tifbytes",
	})
	path, err := GetTifInZip(zipFile, dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "2020.TIF" {
		t.Fatalf("path %s", path)
	}
	if _, err = os.Stat(zipFile); !os.IsNotExist(err) {
		t.Fatal("zip not consumed")
	}

	empty := filepath.Join(dir, "empty.zip")
	writeZip(t, empty, map[string]string{"readme.txt": "doc"})
	if _, err = GetTifInZip(empty, dir); !errors.Is(err, ErrNoTifInZip) {
		t.Fatalf("err = %v, want ErrNoTifInZip", err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source still present")
	}
	body, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(body, []byte("content")) {
		t.Fatalf("body %q", body)
	}
}

func TestGetUniqSubDir(t *testing.T) {
	parent := t.TempDir()
	a, err := GetUniqSubDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetUniqSubDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("collided: %s", a)
	}
	if st, err := os.Stat(a); err != nil || !st.IsDir() {
		t.Fatalf("not a dir: %v", err)
	}
}

func TestGetDateSubDir(t *testing.T) {
	parent := t.TempDir()
	a, err := GetDateSubDir(parent, "20200601")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(a) != "20200601" {
		t.Fatalf("path %s", a)
	}
	// creating the same date twice must not fail
	if _, err = GetDateSubDir(parent, "20200601"); err != nil {
		t.Fatal(err)
	}
}
