// Package publish uploads built Python distributions to a package index
// through the legacy upload API.
//
// A batch runs in four steps: credentials are resolved once (Resolver), then
// for every artifact in order a multipart request is built (Builder), sent
// (Transport) and its response classified (Classify). The Publisher drives
// the batch and decides whether an outcome stops it.
package publish

const (
	// DefaultRepositoryURL is the upload endpoint of the public index.
	DefaultRepositoryURL = "https://upload.pypi.org/legacy/"
	// DefaultRepositoryName is the .pypirc section consulted for DefaultRepositoryURL.
	DefaultRepositoryName = "pypi"
	// TokenUsername is the username that accompanies an API token.
	TokenUsername = "__token__"
)

// Registry is an index account with resolved credentials. It is not
// modified after resolution.
type Registry struct {
	Username string
	Password string
	URL      string
}

// Options are the user supplied publish settings. Empty Username and
// Password mean "not supplied".
type Options struct {
	// Repository is either an http(s) URL or a .pypirc section name.
	Repository   string
	Username     string
	Password     string
	SkipExisting bool
}

// Environment carries credential overrides taken from the process
// environment. Empty values mean "not set".
type Environment struct {
	// Token is a full API token; it implies TokenUsername.
	Token string
	// Password overrides prompting and the secret store.
	Password string
}
