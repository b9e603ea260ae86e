package publish

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wheelpub/internal/keyring"
	"wheelpub/internal/pypirc"
)

type credentials struct {
	username string
	password string
}

// credentialLookup returns nil credentials when its layer has nothing to offer.
type credentialLookup func() (*credentials, error)

// passwordLookup reports ok=false when its layer has nothing to offer.
type passwordLookup func(username string) (password string, ok bool, err error)

// Resolver completes an Options value into a Registry.
//
// URL resolution: a repository that is not an http(s) URL names a .pypirc
// section whose repository key is the URL; the default upload URL maps to the
// "pypi" section; any other URL is used as-is.
//
// Credential precedence, first match wins:
//  1. API token from the environment (username TokenUsername)
//  2. username and password from the .pypirc section, when both are set
//  3. username from options or prompt; password from options, environment,
//     secret store, or prompt
type Resolver struct {
	env      Environment
	config   pypirc.Source
	store    keyring.Store
	prompter Prompter
	reporter Reporter
	logger   *zap.Logger
}

// NewResolver creates a Resolver with the given dependencies.
func NewResolver(env Environment, config pypirc.Source, store keyring.Store, prompter Prompter, reporter Reporter, logger *zap.Logger) *Resolver {
	if store == nil {
		store = keyring.Noop{}
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Resolver{
		env:      env,
		config:   config,
		store:    store,
		prompter: prompter,
		reporter: reporter,
		logger:   logger,
	}
}

// Resolve determines the registry URL and credentials for opts.
func (r *Resolver) Resolve(opts Options) (Registry, error) {
	configName, url, err := r.resolveURL(opts.Repository)
	if err != nil {
		return Registry{}, err
	}

	for _, lookup := range r.credentialChain(opts, configName) {
		creds, err := lookup()
		if err != nil {
			return Registry{}, err
		}
		if creds != nil {
			return Registry{Username: creds.username, Password: creds.password, URL: url}, nil
		}
	}
	// The interactive layer always answers.
	return Registry{}, catalog.New(ErrPromptFailed, "no credentials available")
}

func (r *Resolver) resolveURL(repository string) (configName, url string, err error) {
	if !strings.HasPrefix(repository, "http://") && !strings.HasPrefix(repository, "https://") {
		configured, ok := r.configValue(repository, pypirc.KeyRepository)
		if !ok || configured == "" {
			return "", "", catalog.WrapWithContext(ErrRegistryNotInConfig, nil,
				fmt.Sprintf("Failed to get registry %s in .pypirc. "+
					"Note: Your index didn't start with http:// or https://, "+
					"which is required for non-pypirc indices.", repository),
				map[string]any{"section": repository})
		}
		r.logger.Debug("Resolved repository from .pypirc", zap.String("section", repository), zap.String("url", configured))
		return repository, configured, nil
	}
	if repository == DefaultRepositoryURL {
		return DefaultRepositoryName, repository, nil
	}
	return "", repository, nil
}

func (r *Resolver) credentialChain(opts Options, configName string) []credentialLookup {
	return []credentialLookup{
		r.tokenCredentials,
		func() (*credentials, error) { return r.configCredentials(configName) },
		func() (*credentials, error) { return r.interactiveCredentials(opts) },
	}
}

func (r *Resolver) tokenCredentials() (*credentials, error) {
	if r.env.Token == "" {
		return nil, nil
	}
	r.logger.Debug("Using API token from environment")
	return &credentials{username: TokenUsername, password: r.env.Token}, nil
}

func (r *Resolver) configCredentials(configName string) (*credentials, error) {
	if configName == "" {
		return nil, nil
	}
	username, hasUser := r.configValue(configName, pypirc.KeyUsername)
	password, hasPass := r.configValue(configName, pypirc.KeyPassword)
	if !hasUser || !hasPass {
		return nil, nil
	}
	r.reporter.Info("Using credential in pypirc for upload")
	return &credentials{username: username, password: password}, nil
}

func (r *Resolver) interactiveCredentials(opts Options) (*credentials, error) {
	username := opts.Username
	if username == "" {
		var err error
		if username, err = r.prompter.Username(); err != nil {
			return nil, catalog.Wrap(ErrPromptFailed, err, fmt.Sprintf("failed to read username: %v", err))
		}
	}

	for _, lookup := range r.passwordChain(opts) {
		password, ok, err := lookup(username)
		if err != nil {
			return nil, err
		}
		if ok {
			return &credentials{username: username, password: password}, nil
		}
	}
	return nil, nil
}

func (r *Resolver) passwordChain(opts Options) []passwordLookup {
	return []passwordLookup{
		func(string) (string, bool, error) { return opts.Password, opts.Password != "", nil },
		func(string) (string, bool, error) { return r.env.Password, r.env.Password != "", nil },
		r.storedPassword,
		r.promptPassword,
	}
}

// storedPassword never fails; an unusable secret store just falls through.
func (r *Resolver) storedPassword(username string) (string, bool, error) {
	password, err := r.store.Get(keyring.ServiceName, username)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrUnavailable) {
			r.logger.Debug("Secret store lookup failed", zap.String("username", username), zap.Error(err))
		}
		return "", false, nil
	}
	r.logger.Debug("Using password from secret store", zap.String("username", username))
	return password, true, nil
}

func (r *Resolver) promptPassword(string) (string, bool, error) {
	password, err := r.prompter.Password()
	if err != nil {
		return "", false, catalog.Wrap(ErrPromptFailed, err, fmt.Sprintf("failed to read password: %v", err))
	}
	return password, true, nil
}

func (r *Resolver) configValue(section, key string) (string, bool) {
	if r.config == nil {
		return "", false
	}
	return r.config.Get(section, key)
}
