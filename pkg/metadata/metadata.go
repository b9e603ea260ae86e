// Package metadata reads core metadata from built Python distributions.
//
// Wheels carry it in <name>.dist-info/METADATA, source distributions in
// <name>-<version>/PKG-INFO. Both use the RFC 822 header layout described by
// the core metadata specification; the long description may either be a
// Description header or, from metadata 2.1 on, the message body.
package metadata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither wheels nor sdists.
	ErrUnsupportedFormat = errors.New("unsupported distribution format")
	// ErrMetadataNotFound is returned when the archive has no METADATA/PKG-INFO.
	ErrMetadataNotFound = errors.New("metadata file not found in archive")
	// ErrMissingField is returned when a required metadata field is absent.
	ErrMissingField = errors.New("required metadata field missing")
)

// Metadata holds the core metadata fields sent to the index.
// Optional scalar fields are nil when the header is absent.
type Metadata struct {
	MetadataVersion        string
	Name                   string
	Version                string
	Summary                *string
	Description            *string
	DescriptionContentType *string
	Author                 *string
	AuthorEmail            *string
	Maintainer             *string
	MaintainerEmail        *string
	License                *string
	Keywords               *string
	HomePage               *string
	DownloadURL            *string
	RequiresPython         *string

	Classifiers      []string
	Platforms        []string
	RequiresDist     []string
	ProvidesDist     []string
	ObsoletesDist    []string
	RequiresExternal []string
	ProjectURLs      []string
}

// multilineFields keep their line breaks when folded over several lines.
// Metadata 1.x and 2.0 carry the long description this way.
var multilineFields = map[string]bool{
	"Description": true,
	"License":     true,
}

// Parse reads a METADATA / PKG-INFO document.
func Parse(r io.Reader) (*Metadata, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, fmt.Errorf("parse metadata headers: %w", err)
	}

	m := &Metadata{
		MetadataVersion:        h.Get("Metadata-Version"),
		Name:                   h.Get("Name"),
		Version:                h.Get("Version"),
		Summary:                optional(h, "Summary"),
		Description:            optional(h, "Description"),
		DescriptionContentType: optional(h, "Description-Content-Type"),
		Author:                 optional(h, "Author"),
		AuthorEmail:            optional(h, "Author-email"),
		Maintainer:             optional(h, "Maintainer"),
		MaintainerEmail:        optional(h, "Maintainer-email"),
		License:                optional(h, "License"),
		Keywords:               optional(h, "Keywords"),
		HomePage:               optional(h, "Home-page"),
		DownloadURL:            optional(h, "Download-URL"),
		RequiresPython:         optional(h, "Requires-Python"),
		Classifiers:            h.Values("Classifier"),
		Platforms:              h.Values("Platform"),
		RequiresDist:           h.Values("Requires-Dist"),
		ProvidesDist:           h.Values("Provides-Dist"),
		ObsoletesDist:          h.Values("Obsoletes-Dist"),
		RequiresExternal:       h.Values("Requires-External"),
		ProjectURLs:            h.Values("Project-URL"),
	}

	required := []struct{ field, value string }{
		{"Metadata-Version", m.MetadataVersion},
		{"Name", m.Name},
		{"Version", m.Version},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, r.field)
		}
	}

	if m.Description == nil {
		body, err := io.ReadAll(br)
		if err != nil {
			return nil, fmt.Errorf("read metadata body: %w", err)
		}
		if text := strings.TrimSpace(string(body)); text != "" {
			m.Description = &text
		}
	}

	return m, nil
}

// readHeader reads the header block up to the first blank line or EOF.
// Continuation lines of multilineFields are joined with newlines after
// removing the indentation writers add ("        " or "       |");
// other fields are unfolded with single spaces.
func readHeader(br *bufio.Reader) (textproto.MIMEHeader, error) {
	h := make(textproto.MIMEHeader)
	var key string
	var lines []string
	flush := func() {
		if key == "" {
			return
		}
		sep := " "
		if multilineFields[key] {
			sep = "\n"
		}
		h.Add(key, strings.Join(lines, sep))
		key, lines = "", nil
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			flush()
			return h, nil
		}

		if line[0] == ' ' || line[0] == '\t' {
			if key == "" {
				return nil, fmt.Errorf("continuation line before first header: %q", line)
			}
			if multilineFields[key] {
				lines = append(lines, unindent(line))
			} else {
				lines = append(lines, strings.TrimSpace(line))
			}
		} else {
			flush()
			name, value, ok := strings.Cut(line, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("malformed header line: %q", line)
			}
			key = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))
			lines = []string{strings.TrimSpace(value)}
		}

		if err == io.EOF {
			flush()
			return h, nil
		}
	}
}

// unindent strips the prefix of a folded multi-line value.
func unindent(line string) string {
	const indent = "        "
	switch {
	case strings.HasPrefix(line, indent[1:]+"|"):
		return line[len(indent):]
	case strings.HasPrefix(line, indent):
		return strings.TrimPrefix(line[len(indent):], "|")
	}
	return strings.TrimLeft(line, " \t")
}

func optional(h textproto.MIMEHeader, key string) *string {
	values := h.Values(key)
	if len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}
