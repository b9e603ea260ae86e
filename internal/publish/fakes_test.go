package publish

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"wheelpub/internal/keyring"
)

// mapConfig is an in-memory pypirc.Source.
type mapConfig map[string]map[string]string

func (c mapConfig) Get(section, key string) (string, bool) {
	values, ok := c[section]
	if !ok {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

type fakePrompter struct {
	username      string
	password      string
	err           error
	usernameCalls int
	passwordCalls int
}

func (p *fakePrompter) Username() (string, error) {
	p.usernameCalls++
	return p.username, p.err
}

func (p *fakePrompter) Password() (string, error) {
	p.passwordCalls++
	return p.password, p.err
}

func (p *fakePrompter) calls() int { return p.usernameCalls + p.passwordCalls }

// fakeStore records secret store calls and returns canned errors.
type fakeStore struct {
	passwords map[string]string
	getErr    error
	setErr    error
	deleteErr error
	deleted   []string
	set       map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{passwords: map[string]string{}, set: map[string]string{}}
}

func (s *fakeStore) Get(service, username string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	p, ok := s.passwords[service+"/"+username]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) Set(service, username, password string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.set[service+"/"+username] = password
	return nil
}

func (s *fakeStore) Delete(service, username string) error {
	s.deleted = append(s.deleted, service+"/"+username)
	return s.deleteErr
}

type recordingReporter struct {
	steps, infos, warns, successes, errors []string
}

func (r *recordingReporter) Step(msg string)    { r.steps = append(r.steps, msg) }
func (r *recordingReporter) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recordingReporter) Warn(msg string)    { r.warns = append(r.warns, msg) }
func (r *recordingReporter) Success(msg string) { r.successes = append(r.successes, msg) }
func (r *recordingReporter) Error(msg string)   { r.errors = append(r.errors, msg) }

type countingResolver struct {
	registry Registry
	err      error
	calls    int
}

func (r *countingResolver) Resolve(Options) (Registry, error) {
	r.calls++
	return r.registry, r.err
}

// stubBuilder builds requests without touching the file system.
type stubBuilder struct {
	errs       map[string]error
	registries []Registry
}

func (b *stubBuilder) Build(registry Registry, path string) (*UploadRequest, error) {
	b.registries = append(b.registries, registry)
	if err := b.errs[path]; err != nil {
		return nil, err
	}
	return &UploadRequest{
		URL:      registry.URL,
		Username: registry.Username,
		Password: registry.Password,
		FilePath: path,
		FileName: filepath.Base(path),
	}, nil
}

// scriptedTransport answers each artifact with a canned status and body.
type scriptedTransport struct {
	responses map[string]Response
	errs      map[string]error
	sent      []string
}

func (t *scriptedTransport) Send(_ context.Context, req *UploadRequest) (*Response, error) {
	t.sent = append(t.sent, req.FilePath)
	if err := t.errs[req.FilePath]; err != nil {
		return nil, err
	}
	resp, ok := t.responses[req.FilePath]
	if !ok {
		return &Response{StatusCode: 200}, nil
	}
	return &resp, nil
}

var errBoom = errors.New("boom")

func artifactNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("dist/pkg%d-1.0-py3-none-any.whl", i+1)
	}
	return names
}
