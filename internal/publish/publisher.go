package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"wheelpub/internal/keyring"
	"wheelpub/pkg/errx"
)

// Reporter receives user-facing progress messages.
type Reporter interface {
	Step(msg string)
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Error(msg string)
}

type nopReporter struct{}

func (nopReporter) Step(string)    {}
func (nopReporter) Info(string)    {}
func (nopReporter) Warn(string)    {}
func (nopReporter) Success(string) {}
func (nopReporter) Error(string)   {}

// CredentialResolver resolves the registry for a batch.
type CredentialResolver interface {
	Resolve(opts Options) (Registry, error)
}

// RequestBuilder prepares one artifact for upload.
type RequestBuilder interface {
	Build(registry Registry, path string) (*UploadRequest, error)
}

// ArtifactFailure describes the artifact that stopped a batch.
type ArtifactFailure struct {
	Path     string
	FileName string
	// Size is human readable, or an explanation when the size is unknown.
	Size string
	// Outcome is nil when the artifact failed before a response was received
	// or could be classified (unreadable file, bad metadata).
	Outcome *Outcome
}

// BatchResult summarises one Publish call.
type BatchResult struct {
	URL      string
	Uploaded []string
	Skipped  []string
	Failure  *ArtifactFailure
}

// Succeeded reports whether every artifact was uploaded or skipped.
func (r *BatchResult) Succeeded() bool {
	return r != nil && r.Failure == nil
}

// Publisher uploads a batch of artifacts, one at a time and in order.
type Publisher struct {
	resolver  CredentialResolver
	builder   RequestBuilder
	transport Transport
	store     keyring.Store
	reporter  Reporter
	logger    *zap.Logger
}

// NewPublisher creates a Publisher with the given dependencies. A nil store
// disables the secret store; a nil reporter discards progress messages.
func NewPublisher(resolver CredentialResolver, builder RequestBuilder, transport Transport, store keyring.Store, reporter Reporter, logger *zap.Logger) *Publisher {
	if store == nil {
		store = keyring.Noop{}
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Publisher{
		resolver:  resolver,
		builder:   builder,
		transport: transport,
		store:     store,
		reporter:  reporter,
		logger:    logger,
	}
}

// Publish resolves credentials once and uploads artifacts in order. It stops
// at the first fatal outcome; the returned BatchResult is non-nil whenever
// credentials were resolved.
func (p *Publisher) Publish(ctx context.Context, opts Options, artifacts []string) (*BatchResult, error) {
	registry, err := p.resolver.Resolve(opts)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{URL: registry.URL}
	p.reporter.Step(fmt.Sprintf("Uploading %d packages", len(artifacts)))
	p.logger.Info("Uploading packages", zap.String("url", registry.URL), zap.Int("count", len(artifacts)))

	for _, artifact := range artifacts {
		outcome, err := p.uploadOne(ctx, registry, artifact)
		if err != nil {
			result.Failure = p.failure(artifact, nil)
			return result, p.fatal(result.Failure, err)
		}

		switch outcome.Kind {
		case OutcomeSuccess:
			p.logger.Info("Uploaded package", zap.String("artifact", artifact))
			result.Uploaded = append(result.Uploaded, artifact)
			continue

		case OutcomeAuthenticationFailed:
			p.reporter.Error("Username and/or password are wrong")
			p.forgetPassword(registry.Username)
			result.Failure = p.failure(artifact, &outcome)
			return result, catalog.WrapWithContext(ErrAuthentication, nil, "Username and/or password are wrong",
				map[string]any{"url": registry.URL, "username": registry.Username, "artifact": result.Failure.FileName})

		case OutcomeAlreadyExists:
			if opts.SkipExisting {
				p.reporter.Warn(fmt.Sprintf("Note: Skipping %q because it appears to already exist", filepath.Base(artifact)))
				result.Skipped = append(result.Skipped, artifact)
				continue
			}
		}

		result.Failure = p.failure(artifact, &outcome)
		return result, p.fatal(result.Failure, outcome.Err())
	}

	p.reporter.Success("Packages uploaded successfully")
	p.rememberPassword(registry)
	return result, nil
}

// uploadOne returns an error only when the request could not be built or the
// artifact could not be read; every server answer is an Outcome.
func (p *Publisher) uploadOne(ctx context.Context, registry Registry, artifact string) (Outcome, error) {
	req, err := p.builder.Build(registry, artifact)
	if err != nil {
		return Outcome{}, err
	}

	resp, err := p.transport.Send(ctx, req)
	if err != nil {
		if errors.Is(err, ErrReadArtifact) {
			return Outcome{}, err
		}
		return TransportFailure(err), nil
	}
	return Classify(resp.StatusCode, resp.Body), nil
}

func (p *Publisher) failure(artifact string, outcome *Outcome) *ArtifactFailure {
	return &ArtifactFailure{
		Path:     artifact,
		FileName: filepath.Base(artifact),
		Size:     fileSize(artifact),
		Outcome:  outcome,
	}
}

func (p *Publisher) fatal(f *ArtifactFailure, cause error) error {
	base := ErrServerResponse
	var e *errx.Error
	if errors.As(cause, &e) && e.Base() != nil {
		base = e.Base()
	}
	ctx := map[string]any{"artifact": f.FileName, "size": f.Size}
	if f.Outcome != nil {
		ctx["outcome"] = f.Outcome.Kind.String()
	}
	return catalog.WrapWithContext(base, cause,
		fmt.Sprintf("Failed to upload %q (%s): %s", f.FileName, f.Size, errx.UserString(cause)), ctx)
}

// forgetPassword removes a rejected password from the secret store.
func (p *Publisher) forgetPassword(username string) {
	err := p.store.Delete(keyring.ServiceName, username)
	switch {
	case err == nil:
		p.reporter.Info("Removed wrong password from keyring")
	case errors.Is(err, keyring.ErrNotFound), errors.Is(err, keyring.ErrUnavailable):
	default:
		p.logger.Debug("Secret store delete failed", zap.String("username", username), zap.Error(err))
		p.reporter.Warn(fmt.Sprintf("Warning: Failed to remove password from keyring: %v", err))
	}
}

// rememberPassword stores credentials that the index just accepted.
func (p *Publisher) rememberPassword(registry Registry) {
	err := p.store.Set(keyring.ServiceName, registry.Username, registry.Password)
	if err == nil || errors.Is(err, keyring.ErrUnavailable) {
		return
	}
	p.logger.Debug("Secret store write failed", zap.String("username", registry.Username), zap.Error(err))
	p.reporter.Warn(fmt.Sprintf("Warning: Failed to store the password in the keyring: %v", err))
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("Failed to get the filesize of %q: %v", path, err)
	}
	return humanize.Bytes(uint64(info.Size()))
}
