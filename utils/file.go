package utils

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const FILE_EXT_TIF = ".tif"

var (
	ErrNoTifInZip = errors.New("no tif in zip")
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetDateSubDir(parentPath, date string) (path string, err error) {
	path = filepath.Join(parentPath, date)
	err = os.MkdirAll(path, os.ModePerm)
	return
}

// Ungzip decompresses a gzip file into dst. A broken transfer leaves no dst.
func Ungzip(gzFile, dst string) (err error) {
	src, err := os.Open(gzFile)
	if err != nil {
		return
	}
	defer src.Close()
	zr, err := gzip.NewReader(src)
	if err != nil {
		return
	}
	defer zr.Close()
	out, err := os.Create(dst)
	if err != nil {
		return
	}
	_, err = io.Copy(out, zr)
	if cErr := out.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		os.Remove(dst)
	}
	return
}

// Unzip extracts the regular members of a zip into dstDir and returns their
// paths. Member paths are flattened to their base names.
func Unzip(zipFile, dstDir string) (files []string, err error) {
	zr, err := zip.OpenReader(zipFile)
	if err != nil {
		return
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Join(dstDir, filepath.Base(f.Name))
		var (
			in  io.ReadCloser
			out *os.File
		)
		if in, err = f.Open(); err != nil {
			return
		}
		if out, err = os.Create(name); err != nil {
			in.Close()
			return
		}
		_, err = io.Copy(out, in)
		in.Close()
		if cErr := out.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			return
		}
		files = append(files, name)
	}
	return
}

// GetTifInZip extracts a zip and returns its first tif member.
func GetTifInZip(zipFile, dstDir string) (path string, err error) {
	files, err := Unzip(zipFile, dstDir)
	if err != nil {
		return
	}
	os.Remove(zipFile)
	for _, file := range files {
		if strings.HasSuffix(strings.ToLower(file), FILE_EXT_TIF) {
			path = file
			return
		}
	}
	err = ErrNoTifInZip
	return
}

// MoveFile renames src to dst, falling back to copy when crossing devices.
func MoveFile(src, dst string) (err error) {
	if err = os.Rename(src, dst); err == nil {
		return
	}
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return
	}
	_, err = io.Copy(out, in)
	if cErr := out.Close(); err == nil {
		err = cErr
	}
	if err == nil {
		err = os.Remove(src)
	}
	return
}
