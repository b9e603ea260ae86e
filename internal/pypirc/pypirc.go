// Package pypirc reads the legacy ~/.pypirc file used by Python upload tools.
//
// A typical file:
//
//	[distutils]
//	index-servers =
//	    pypi
//	    testpypi
//
//	[testpypi]
//	repository = https://test.pypi.org/legacy/
//	username = __token__
//	password = pypi-AgENdGVzdC5weXBpLm9yZw...
//
// Section and key names are case-insensitive. The file is never written.
package pypirc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// FileName is the legacy config file name inside the home directory.
const FileName = ".pypirc"

// Keys understood inside a section.
const (
	KeyRepository = "repository"
	KeyUsername   = "username"
	KeyPassword   = "password"
)

// Source is a read-only view of INI-like key/value sections.
type Source interface {
	Get(section, key string) (string, bool)
}

// File is a parsed .pypirc.
type File struct {
	cfg *ini.File
}

// loadOptions read values verbatim, the way configparser does: no inline
// comments and no quote stripping.
var loadOptions = ini.LoadOptions{
	Insensitive:                true,
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
	SkipUnrecognizableLines:    true,
	PreserveSurroundedQuote:    true,
}

// Empty returns a File without sections.
func Empty() *File {
	return &File{cfg: ini.Empty(loadOptions)}
}

// Parse reads a .pypirc from raw bytes.
func Parse(data []byte) (*File, error) {
	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, err
	}
	return &File{cfg: cfg}, nil
}

// Load reads the file at path. A missing file yields an empty File and no error.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is the user's own config file.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// DefaultPath returns ~/.pypirc.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Get returns the value of key in section. Keys present with an empty value
// are reported as found.
func (f *File) Get(section, key string) (string, bool) {
	if f == nil || f.cfg == nil {
		return "", false
	}
	sec, err := f.cfg.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// Sections lists the section names in file order.
func (f *File) Sections() []string {
	if f == nil || f.cfg == nil {
		return nil
	}
	var names []string
	for _, name := range f.cfg.SectionStrings() {
		if strings.EqualFold(name, ini.DefaultSection) {
			continue
		}
		names = append(names, name)
	}
	return names
}
