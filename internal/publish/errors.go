package publish

import "wheelpub/pkg/errx"

var catalog = errx.NewCatalog()

var (
	// ErrRegistryNotInConfig: a named repository has no section or no repository key.
	ErrRegistryNotInConfig = catalog.Sentinel("registry not found in .pypirc", errx.CodeConfig, errx.DescConfig)
	// ErrPromptFailed: interactive username or password input could not be read.
	ErrPromptFailed = catalog.Sentinel("failed to read credentials", errx.CodeCredential, errx.DescCredential)

	ErrReadArtifact  = catalog.Sentinel("failed to read artifact", errx.CodeArtifact, errx.DescArtifact)
	ErrParseMetadata = catalog.Sentinel("could not read package metadata", errx.CodeMetadata, errx.DescMetadata)

	ErrTransport      = catalog.Sentinel("http error", errx.CodeTransport, errx.DescTransport)
	ErrAuthentication = catalog.Sentinel("username or password are incorrect", errx.CodeAuth, errx.DescAuth)
	ErrAlreadyExists  = catalog.Sentinel("file already exists", errx.CodeConflict, errx.DescConflict)
	ErrServerResponse = catalog.Sentinel("registry rejected the upload", errx.CodeServer, errx.DescServer)
)
