package metadata

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// File types understood by the legacy upload API.
const (
	FileTypeWheel = "bdist_wheel"
	FileTypeSdist = "sdist"
)

// PythonVersionSource is the pyversion reported for source distributions.
const PythonVersionSource = "source"

// maxMetadataSize caps how much of METADATA / PKG-INFO is read into memory.
const maxMetadataSize = 16 << 20

// Distribution is a built artifact together with its metadata.
type Distribution struct {
	Path          string
	FileType      string
	PythonVersion string
	Metadata      *Metadata
}

// Read opens the distribution at p and parses its metadata.
func Read(p string) (*Distribution, error) {
	base := filepath.Base(p)
	switch {
	case strings.HasSuffix(base, ".whl"):
		return readWheel(p, base)
	case strings.HasSuffix(base, ".tar.gz"), strings.HasSuffix(base, ".tgz"):
		return readTarSdist(p)
	case strings.HasSuffix(base, ".zip"):
		return readZipSdist(p)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, base)
}

// WheelPythonTag returns the python tag of a wheel file name, e.g. "cp312"
// for "demo-1.0-cp312-cp312-manylinux_2_17_x86_64.whl".
func WheelPythonTag(fileName string) (string, error) {
	stem := strings.TrimSuffix(fileName, ".whl")
	parts := strings.Split(stem, "-")
	// name-version[-build]-python-abi-platform
	if len(parts) != 5 && len(parts) != 6 {
		return "", fmt.Errorf("%w: invalid wheel file name %q", ErrUnsupportedFormat, fileName)
	}
	return parts[len(parts)-3], nil
}

func readWheel(p, base string) (*Distribution, error) {
	tag, err := WheelPythonTag(base)
	if err != nil {
		return nil, err
	}
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open wheel: %w", err)
	}
	defer zr.Close()

	md, err := parseZipMember(&zr.Reader, func(name string) bool {
		dir, file := path.Split(name)
		return file == "METADATA" && strings.Count(dir, "/") == 1 && strings.HasSuffix(dir, ".dist-info/")
	})
	if err != nil {
		return nil, err
	}
	return &Distribution{Path: p, FileType: FileTypeWheel, PythonVersion: tag, Metadata: md}, nil
}

func readZipSdist(p string) (*Distribution, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open sdist: %w", err)
	}
	defer zr.Close()

	md, err := parseZipMember(&zr.Reader, isTopLevelPkgInfo)
	if err != nil {
		return nil, err
	}
	return &Distribution{Path: p, FileType: FileTypeSdist, PythonVersion: PythonVersionSource, Metadata: md}, nil
}

func readTarSdist(p string) (*Distribution, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open sdist: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress sdist: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, ErrMetadataNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("read sdist: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !isTopLevelPkgInfo(hdr.Name) {
			continue
		}
		md, err := Parse(io.LimitReader(tr, maxMetadataSize))
		if err != nil {
			return nil, err
		}
		return &Distribution{Path: p, FileType: FileTypeSdist, PythonVersion: PythonVersionSource, Metadata: md}, nil
	}
}

func parseZipMember(zr *zip.Reader, match func(string) bool) (*Metadata, error) {
	for _, f := range zr.File {
		if !match(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		md, err := Parse(io.LimitReader(rc, maxMetadataSize))
		rc.Close()
		return md, err
	}
	return nil, ErrMetadataNotFound
}

// isTopLevelPkgInfo matches "<name>-<version>/PKG-INFO" but not nested
// copies such as the one inside an egg-info directory.
func isTopLevelPkgInfo(name string) bool {
	name = strings.TrimPrefix(name, "./")
	dir, file := path.Split(name)
	return file == "PKG-INFO" && strings.Count(dir, "/") == 1
}
