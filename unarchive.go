// unarchive.go
package main

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// unpackArchive expands a compressed upload in place and returns the path of
// the extracted table. Non-archive paths are returned untouched so callers can
// feed any upload through it.
func unpackArchive(filePath string) (string, error) {
	switch filepath.Ext(filePath) {
	case ".zip":
		return unpackZipArchive(filePath)
	case ".gz":
		return unpackCompressed(filePath, ".gz", func(f *os.File) (io.Reader, error) {
			gr, err := gzip.NewReader(f)
			if err != nil {
				return nil, err
			}
			return gr, nil
		})
	case ".lz4":
		return unpackCompressed(filePath, ".lz4", func(f *os.File) (io.Reader, error) {
			return lz4.NewReader(f), nil
		})
	}
	return filePath, nil
}

// unpackZipArchive extracts the largest file in the archive; survey exports
// often bundle a readme next to the data file.
func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var largest *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return "", nil
	}

	destPath := filepath.Join(filepath.Dir(filePath), filepath.Base(largest.Name))
	rc, err := largest.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	if err := writeStream(destPath, rc); err != nil {
		return "", err
	}
	if err := os.Remove(filePath); err != nil {
		return "", err
	}
	return destPath, nil
}

func unpackCompressed(filePath, ext string, open func(*os.File) (io.Reader, error)) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	src, err := open(file)
	if err != nil {
		return "", err
	}
	destPath := strings.TrimSuffix(filePath, ext)
	if err := writeStream(destPath, src); err != nil {
		return "", err
	}
	if err := os.Remove(filePath); err != nil {
		return "", err
	}
	return destPath, nil
}

func writeStream(destPath string, src io.Reader) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}
