package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedUpload struct {
	contentType   string
	contentLength int64
	userAgent     string
	username      string
	password      string
	basicOK       bool
	fields        []Field
	fileName      string
	fileData      string
}

// captureServer records the single upload it receives and answers with status/body.
func captureServer(t *testing.T, status int, body string) (*httptest.Server, *capturedUpload) {
	t.Helper()
	got := &capturedUpload{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.contentType = r.Header.Get("Content-Type")
		got.contentLength = r.ContentLength
		got.userAgent = r.UserAgent()
		got.username, got.password, got.basicOK = r.BasicAuth()

		mr, err := r.MultipartReader()
		if err != nil {
			t.Errorf("MultipartReader: %v", err)
			return
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("NextPart: %v", err)
				return
			}
			data, _ := io.ReadAll(part)
			if part.FormName() == contentField {
				got.fileName = part.FileName()
				got.fileData = string(data)
				continue
			}
			got.fields = append(got.fields, Field{part.FormName(), string(data)})
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "demo-1.0-py3-none-any.whl")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestHTTPTransport_Send(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, "ignored")
	p := writeArtifact(t, "wheel bytes")

	req := &UploadRequest{
		URL:      srv.URL,
		Username: "__token__",
		Password: "pypi-abc",
		Fields: []Field{
			{":action", "file_upload"},
			{"name", "demo"},
			{"classifiers", "A"},
			{"classifiers", "B"},
		},
		FilePath: p,
		FileName: "demo-1.0-py3-none-any.whl",
	}
	resp, err := NewHTTPTransport(srv.Client(), "wheelpub/1.2.3").Send(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, &Response{StatusCode: http.StatusOK}, resp)
	assert.Contains(t, got.contentType, "multipart/form-data; boundary=")
	assert.Greater(t, got.contentLength, int64(len("wheel bytes")))
	assert.Equal(t, "wheelpub/1.2.3", got.userAgent)
	assert.True(t, got.basicOK)
	assert.Equal(t, "__token__", got.username)
	assert.Equal(t, "pypi-abc", got.password)
	assert.Equal(t, "demo-1.0-py3-none-any.whl", got.fileName)
	assert.Equal(t, "wheel bytes", got.fileData)
	if diff := cmp.Diff(req.Fields, got.fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPTransport_ErrorStatus(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadRequest, "File already exists.")
	p := writeArtifact(t, "x")

	resp, err := NewHTTPTransport(nil, "wheelpub/test").Send(context.Background(), &UploadRequest{
		URL: srv.URL, FilePath: p, FileName: filepath.Base(p),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "File already exists.", resp.Body)
	assert.Equal(t, OutcomeAlreadyExists, Classify(resp.StatusCode, resp.Body).Kind)
}

func TestHTTPTransport_MissingFile(t *testing.T) {
	_, err := NewHTTPTransport(nil, "wheelpub/test").Send(context.Background(), &UploadRequest{
		URL: "http://127.0.0.1:1/", FilePath: filepath.Join(t.TempDir(), "gone.whl"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadArtifact)
}

func TestHTTPTransport_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := writeArtifact(t, "x")
	_, err := NewHTTPTransport(nil, "wheelpub/test").Send(context.Background(), &UploadRequest{
		URL: url, FilePath: p, FileName: filepath.Base(p),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrReadArtifact)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadErrorBody(t *testing.T) {
	assert.Equal(t, "nope", readErrorBody(strings.NewReader("nope")))
	assert.Contains(t, readErrorBody(failingReader{}),
		"The registry should return some text, even in case of an error, but didn't")
}
