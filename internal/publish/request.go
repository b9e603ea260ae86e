package publish

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"wheelpub/pkg/metadata"
)

// Wire constants of the legacy upload API.
const (
	uploadAction    = "file_upload"
	protocolVersion = "1"
	// contentField is the multipart field that carries the artifact bytes.
	contentField = "content"
)

// Field is one multipart form field. List-valued metadata produces one
// Field per element under the same name.
type Field struct {
	Name  string
	Value string
}

// UploadRequest is everything needed to send one artifact.
type UploadRequest struct {
	URL      string
	Username string
	Password string
	Fields   []Field
	// FilePath is streamed into the content field under FileName.
	FilePath string
	FileName string
}

// Builder turns an artifact on disk into an UploadRequest.
type Builder struct {
	hashFile         func(string) (string, error)
	readDistribution func(string) (*metadata.Distribution, error)
}

// NewBuilder returns a Builder that hashes with SHA-256 and reads wheel/sdist
// metadata from the artifact itself.
func NewBuilder() *Builder {
	return &Builder{
		hashFile:         metadata.HashFile,
		readDistribution: metadata.Read,
	}
}

// Build hashes and parses the artifact at path and assembles its form.
func (b *Builder) Build(registry Registry, path string) (*UploadRequest, error) {
	digest, err := b.hashFile(path)
	if err != nil {
		return nil, artifactReadError(path, err)
	}

	dist, err := b.readDistribution(path)
	if err != nil {
		return nil, catalog.WrapWithContext(ErrParseMetadata, err,
			fmt.Sprintf("Could not read the metadata from the package at %s: %v", path, err),
			map[string]any{"artifact": path})
	}

	return &UploadRequest{
		URL:      registry.URL,
		Username: registry.Username,
		Password: registry.Password,
		Fields:   FormFields(dist, digest),
		FilePath: path,
		FileName: filepath.Base(path),
	}, nil
}

// FormFields lists the metadata fields of dist in upload order.
func FormFields(dist *metadata.Distribution, sha256Digest string) []Field {
	md := dist.Metadata
	fields := []Field{
		{":action", uploadAction},
		{"sha256_digest", sha256Digest},
		{"protocol_version", protocolVersion},
		{"metadata_version", md.MetadataVersion},
		{"name", Canonicalize(md.Name)},
		{"version", md.Version},
		{"pyversion", dist.PythonVersion},
		{"filetype", dist.FileType},
	}

	addOptional := func(name string, value *string) {
		if value != nil {
			fields = append(fields, Field{name, *value})
		}
	}
	addOptional("summary", md.Summary)
	addOptional("description", md.Description)
	addOptional("description_content_type", md.DescriptionContentType)
	addOptional("author", md.Author)
	addOptional("author_email", md.AuthorEmail)
	addOptional("maintainer", md.Maintainer)
	addOptional("maintainer_email", md.MaintainerEmail)
	addOptional("license", md.License)
	addOptional("keywords", md.Keywords)
	addOptional("home_page", md.HomePage)
	addOptional("download_url", md.DownloadURL)
	addOptional("requires_python", md.RequiresPython)

	// GitLab's index requires requires_python even when empty, and twine
	// always sends it.
	if md.RequiresPython == nil {
		fields = append(fields, Field{"requires_python", ""})
	}

	addList := func(name string, values []string) {
		for _, v := range values {
			fields = append(fields, Field{name, v})
		}
	}
	addList("classifiers", md.Classifiers)
	addList("platform", md.Platforms)
	addList("requires_dist", md.RequiresDist)
	addList("provides_dist", md.ProvidesDist)
	addList("obsoletes_dist", md.ObsoletesDist)
	addList("requires_external", md.RequiresExternal)
	addList("project_urls", md.ProjectURLs)

	return fields
}

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// Canonicalize normalizes a project name the way the index does (PEP 503):
// runs of "-", "_" and "." become a single "-" and the result is lowercased.
func Canonicalize(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(name, "-"))
}
